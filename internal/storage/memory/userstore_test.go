package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgeddes/folio/internal/models"
)

func TestUserStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(nil)

	err := store.PutUser(ctx, &models.User{
		ID:    "google-123",
		Email: "alice@example.com",
		Name:  "Alice",
	})
	require.NoError(t, err)

	got, err := store.GetUser(ctx, "google-123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be stamped")
	assert.False(t, got.LastLogin.IsZero(), "LastLogin should be stamped")
}

func TestUserStore_GetAbsentReturnsNil(t *testing.T) {
	store := NewUserStore(nil)

	got, err := store.GetUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserStore_ReloginPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(nil)

	first := &models.User{ID: "u1", Email: "old@example.com", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.PutUser(ctx, first))

	// Re-login with refreshed profile fields
	second := &models.User{ID: "u1", Email: "new@example.com", Name: "New Name"}
	require.NoError(t, store.PutUser(ctx, second))

	got, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.True(t, got.CreatedAt.Equal(first.CreatedAt), "CreatedAt should survive re-login")
	assert.True(t, got.LastLogin.After(first.CreatedAt), "LastLogin should be stamped on re-login")
}

func TestUserStore_PutRequiresID(t *testing.T) {
	store := NewUserStore(nil)

	err := store.PutUser(context.Background(), &models.User{Email: "x@example.com"})
	assert.Error(t, err)
}

func TestUserStore_DeleteAbsentIsNoError(t *testing.T) {
	store := NewUserStore(nil)

	assert.NoError(t, store.DeleteUser(context.Background(), "ghost"))
}

func TestUserStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(nil)
	require.NoError(t, store.PutUser(ctx, &models.User{ID: "u1", Name: "Original"}))

	got, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Name, "store record must not be mutable through returned pointer")
}

func TestUserStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.PutUser(ctx, &models.User{ID: "shared", Email: "c@example.com"})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.GetUser(ctx, "shared")
		}()
	}
	wg.Wait()

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserStore_CountTracksPutAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(nil)

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.PutUser(ctx, &models.User{ID: "u1"}))
	require.NoError(t, store.PutUser(ctx, &models.User{ID: "u2"}))

	count, err = store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.DeleteUser(ctx, "u1"))

	count, err = store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
