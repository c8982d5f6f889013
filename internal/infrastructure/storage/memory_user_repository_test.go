package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"googly-eyes/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()

	user, err := repo.Get(context.Background(), 1, 100)
	require.NoError(t, err)
	require.Equal(t, int64(100), user.ChatID)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 100)
	require.NoError(t, err)
	user.SetState(entity.StateProcessing)

	stored, err := repo.Get(ctx, 1, 100)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, stored.State, "not saved yet")

	require.NoError(t, repo.Save(ctx, user))
	stored, err = repo.Get(ctx, 1, 100)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, stored.State)
}

func TestMemoryUserRepository_UpdateCreatesAndChanges(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Update(ctx, 5, 50, func(u *entity.User) { u.SetState(entity.StateAwaitingPhoto) })
	require.NoError(t, err)
	require.Equal(t, int64(50), user.ChatID)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	user.SetState(entity.StateProcessing)
	stored, err := repo.Get(ctx, 5, 50)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, stored.State, "returned value is a copy")
}

func TestMemoryUserRepository_UpdateCancelledContext(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Update(ctx, 1, 1, func(u *entity.User) { u.MarkProcessed() })
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoryUserRepository_ConcurrentUpdates(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, _ = repo.Update(ctx, id%5, id, func(u *entity.User) { u.MarkProcessed() })
		}(int64(i))
	}
	wg.Wait()

	for id := int64(0); id < 5; id++ {
		user, err := repo.Get(ctx, id, 0)
		require.NoError(t, err)
		require.Equal(t, 10, user.Processed)
	}
}
