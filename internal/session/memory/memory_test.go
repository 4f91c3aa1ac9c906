package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Тесты для internal/session/memory: TTL cookie, отсутствие TTL у local storage, удаление.

func TestCookieJar_TTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := NewCookieJar()

	require.NoError(t, j.Set(ctx, "auth_token", "abc", 30*time.Millisecond))
	v, ok, err := j.Get(ctx, "auth_token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", v)

	require.Eventually(t, func() bool {
		_, ok, _ := j.Get(ctx, "auth_token")
		return !ok
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, j.Set(ctx, "forever", "x", 0))
	require.NoError(t, j.Delete(ctx, "forever"))
	_, ok, _ = j.Get(ctx, "forever")
	require.False(t, ok)
}

func TestLocalStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewLocalStorage()

	_, ok, err := s.GetItem(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetItem(ctx, "k", "v"))
	v, ok, _ := s.GetItem(ctx, "k")
	require.True(t, ok)
	require.Equal(t, "v", v)

	require.NoError(t, s.RemoveItem(ctx, "k"))
	_, ok, _ = s.GetItem(ctx, "k")
	require.False(t, ok)
}
