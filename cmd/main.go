package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"googly-eyes/config"
	"googly-eyes/internal/api/rest"
	telegram "googly-eyes/internal/api/telegram"
	"googly-eyes/internal/container"
	"googly-eyes/internal/infrastructure/storage"
	"googly-eyes/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("googly-eyes: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	detectors, err := config.LoadDetectors(cfg.DetectorsPath)
	if err != nil {
		return err
	}

	// Ошибки конфигурации детекторов фатальны: без моделей сервис бесполезен
	googlifier, err := container.NewGooglifier(container.NewRegistry(), detectors, cfg.MaxImagePixels, logger)
	if err != nil {
		return err
	}
	// Сети gocv освобождаются после остановки транспортов
	defer func() {
		if err := googlifier.Close(); err != nil {
			logger.Warn("close detectors", zap.Error(err))
		}
	}()

	// Создаём хранилище пользователей
	userRepo := storage.NewMemoryUserRepository()
	appContainer := container.New(userRepo, googlifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	handler := rest.NewHandler(appContainer.Googlifier, cfg.MaxUploadSize, logger)
	router, err := rest.NewRouter(handler, rest.RouterOptions{
		DevMode:        cfg.IsDev(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	server := rest.NewServer(cfg.HTTPAddr, router)
	g.Go(func() error {
		return rest.Serve(ctx, server, cfg.ShutdownTimeout, logger)
	})

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.PhotoService, logger)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			return bot.Run(ctx)
		})
	} else {
		logger.Info("TELEGRAM_TOKEN is empty, telegram bot disabled")
	}

	logger.Info("googly-eyes is running", zap.String("addr", cfg.HTTPAddr), zap.String("mode", cfg.RunningMode))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("googly-eyes stopped")
	return nil
}
