package tokenstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveOverwrites(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	require.NoError(t, store.Save(context.Background(), "user-1", "token-one"))
	require.NoError(t, store.Save(context.Background(), "user-1", "token-two"))

	token, found, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "token-two", token)
}

func TestMemoryStore_MissingUser(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	_, found, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Nanosecond)

	require.NoError(t, store.Save(context.Background(), "user-1", "token-one"))
	time.Sleep(5 * time.Millisecond)

	_, found, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryStore_ConcurrentSaves(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(context.Background(), "user-1", "token")
			_, _, _ = store.Get(context.Background(), "user-1")
		}()
	}
	wg.Wait()

	token, found, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "token", token)
}
