package storage

import (
	"context"
	"sync"

	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/port"
)

// MemoryUserRepository держит пользователей в map по значению.
// Бот и HTTP-обработчики получают копии и не делят один объект.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]entity.User)}
}

// Get возвращает копию пользователя, заводя нового при первом обращении
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, ok := r.users[userID]
	r.mu.RUnlock()
	if ok {
		return &user, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	user = r.lookupLocked(userID, chatID)
	return &user, nil
}

func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()
	return nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, userID, chatID int64, change func(*entity.User)) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.lookupLocked(userID, chatID)
	change(&user)
	r.users[userID] = user
	return &user, nil
}

// lookupLocked вызывается под r.mu на запись
func (r *MemoryUserRepository) lookupLocked(userID, chatID int64) entity.User {
	if user, ok := r.users[userID]; ok {
		return user
	}
	user := *entity.NewUser(userID, chatID)
	r.users[userID] = user
	return user
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
