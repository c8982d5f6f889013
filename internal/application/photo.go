package app

import (
	"context"
	"errors"

	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/port"
)

// ErrNotConfigured конвейер не подключён
var ErrNotConfigured = errors.New("googlifier is not configured")

// PhotoService ведёт пользователя бота через обработку фотографии.
type PhotoService struct {
	users      *UserService
	googlifier port.Googlifier
}

// NewPhotoService создаёт сервис обработки фото из чата.
func NewPhotoService(users *UserService, googlifier port.Googlifier) *PhotoService {
	return &PhotoService{users: users, googlifier: googlifier}
}

// AcceptPhoto обрабатывает фото пользователя. На время обработки пользователь
// находится в состоянии StateProcessing, после неё возвращается в главное меню.
func (s *PhotoService) AcceptPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*entity.GooglifyResult, error) {
	if s.googlifier == nil {
		return nil, ErrNotConfigured
	}

	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}

	result, err := s.googlifier.Googlify(ctx, photo)
	if err != nil {
		// Пользователь не должен застрять в StateProcessing
		_, _ = s.users.Cancel(ctx, userID, chatID)
		return nil, err
	}

	if result.Modified() {
		_, err = s.users.MarkProcessed(ctx, userID, chatID)
	} else {
		_, err = s.users.Cancel(ctx, userID, chatID)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}
