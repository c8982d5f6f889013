//go:build gocv
// +build gocv

// Команда live показывает googly eyes на видео с веб-камеры.
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"googly-eyes/config"
	"googly-eyes/internal/container"
	"googly-eyes/internal/logging"
)

const keyEsc = 27

func main() {
	device := flag.Int("device", 0, "camera device id")
	detectorsPath := flag.String("config", "config/detectors.yaml", "detector configuration file")
	flag.Parse()

	logger, err := logging.NewLogger("info", "")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	detectors, err := config.LoadDetectors(*detectorsPath)
	if err != nil {
		logger.Fatal("load detectors config", zap.Error(err))
	}
	googlifier, err := container.NewGooglifier(container.NewRegistry(), detectors, 0, logger)
	if err != nil {
		logger.Fatal("build googlifier", zap.Error(err))
	}
	defer func() {
		if err := googlifier.Close(); err != nil {
			logger.Warn("close detectors", zap.Error(err))
		}
	}()

	webcam, err := gocv.OpenVideoCapture(*device)
	if err != nil {
		logger.Fatal("open video capture", zap.Error(err))
	}
	defer webcam.Close()

	window := gocv.NewWindow("Googly eyes")
	defer window.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	ctx := context.Background()
	for {
		if ok := webcam.Read(&frame); !ok || frame.Empty() {
			logger.Info("no captured frame")
			return
		}

		encoded, err := gocv.IMEncode(gocv.PNGFileExt, frame)
		if err != nil {
			logger.Error("encode frame", zap.Error(err))
			return
		}
		input := append([]byte(nil), encoded.GetBytes()...)
		encoded.Close()

		_, output := googlifier.Process(ctx, input)

		shown, err := gocv.IMDecode(output, gocv.IMReadColor)
		if err != nil || shown.Empty() {
			shown.Close()
			continue
		}
		window.IMShow(shown)
		shown.Close()

		if window.WaitKey(10) == keyEsc {
			return
		}
	}
}
