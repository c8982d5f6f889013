package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "googly-eyes/internal/application"
	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/logging"
)

const (
	msgStart = `👋 Привет! Я рисую смешные глаза на фотографиях.

📸 Отправьте мне фото с лицами, и я наклею на них googly eyes.

📋 Команды:
/googlify — обработать фото
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото (можно файлом PNG или JPEG)
2️⃣ Бот найдёт лица и глаза
3️⃣ Вы получите то же фото с googly eyes

💡 Рекомендации:
• Лица должны быть видны анфас
• Фото должно быть чётким и хорошо освещённым

📋 Команды:
/googlify — обработать фото
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото с лицами."
	msgCancelled       = "❌ Операция отменена. Отправьте /googlify, чтобы начать заново."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото с лицами."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgDone            = "👀 Готово!"
	msgNoFaces         = "🙈 Не нашёл на фото ни одного лица."
	msgNoEyes          = "🙈 Лица нашёл, а глаза нет. Попробуйте фото, где глаза видно лучше."
	msgCorruptFile     = "⚠️ Не удалось прочитать изображение. Поддерживаются PNG и JPEG."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте другое фото."
)

var imageDocumentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// Bot представляет Telegram-бота
type Bot struct {
	api          *tgbotapi.BotAPI
	users        *app.UserService
	photos       *app.PhotoService
	logger       *zap.Logger
	httpClient   *http.Client
	fileEndpoint string
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, photos *app.PhotoService, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return NewBotWithAPI(api, users, photos, logger), nil
}

// NewBotWithAPI создаёт бота поверх готового клиента Bot API
func NewBotWithAPI(api *tgbotapi.BotAPI, users *app.UserService, photos *app.PhotoService, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:          api,
		users:        users,
		photos:       photos,
		logger:       logger,
		httpClient:   http.DefaultClient,
		fileEndpoint: tgbotapi.FileEndpoint,
	}
}

// Run запускает основной цикл обработки сообщений и завершается после отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			msgCtx := logging.ContextWithRequestID(ctx, fmt.Sprintf("tg-%d", update.UpdateID))
			b.handleMessage(msgCtx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("get user", zap.Error(err))
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handlePhoto(ctx, msg, photo.FileID)
		return
	}

	// Изображение, отправленное файлом, приходит без сжатия
	if msg.Document != nil && imageDocumentTypes[strings.ToLower(msg.Document.MimeType)] {
		b.handlePhoto(ctx, msg, msg.Document.FileID)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var err error

	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "googlify":
		_, err = b.users.BeginGooglify(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		_, err = b.users.Cancel(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}

	if err != nil {
		b.logger.Error("update user state", zap.Error(err), zap.Int64("user_id", user.ID))
	}
}

// handlePhoto скачивает фото, прогоняет через конвейер и отправляет результат
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	log := logging.FromContext(ctx, b.logger, "telegram_photo")

	b.sendMessage(msg.Chat.ID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Error("download photo", zap.Error(err))
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	result, err := b.photos.AcceptPhoto(ctx, msg.From.ID, msg.Chat.ID, imageData)
	if err != nil {
		log.Error("googlify photo", zap.Error(err))
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	switch result.State {
	case entity.StateEncodedResult:
		b.sendPhoto(msg.Chat.ID, result.Image, msgDone)
	case entity.StateNoFacesFound:
		b.sendMessage(msg.Chat.ID, msgNoFaces)
	case entity.StateNoEyesFound:
		b.sendMessage(msg.Chat.ID, msgNoEyes)
	default:
		b.sendMessage(msg.Chat.ID, msgCorruptFile)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := fmt.Sprintf(b.fileEndpoint, b.api.Token, file.FilePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

// sendPhoto отправляет PNG с подписью
func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "googly.png", Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("send photo", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}
