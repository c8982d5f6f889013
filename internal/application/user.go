package app

import (
	"context"

	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) { u.SetState(state) })
}

// BeginGooglify переводит пользователя в ожидание фото
func (s *UserService) BeginGooglify(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// MarkProcessed засчитывает обработанное фото и возвращает в главное меню
func (s *UserService) MarkProcessed(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) { u.MarkProcessed() })
}

func (s *UserService) update(ctx context.Context, userID, chatID int64, change func(*entity.User)) (*entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, change)
}
