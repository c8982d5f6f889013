package port

import (
	"context"

	"googly-eyes/internal/domain/entity"
)

// UserRepository хранит состояние диалога с пользователями бота.
// Реализации отдают копии: изменения попадают в хранилище только через Save или Update.
type UserRepository interface {
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error

	// Update атомарно применяет change к пользователю (создавая его при необходимости)
	// и возвращает копию результата.
	Update(ctx context.Context, userID, chatID int64, change func(*entity.User)) (*entity.User, error)
}
