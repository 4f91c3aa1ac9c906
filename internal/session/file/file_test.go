package file

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/session"
	"github.com/pribylovaa/travel-blog/internal/session/memory"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// Тесты для internal/session/file: round-trip, видимость между экземплярами,
// удаление отсутствующего ключа, пустой путь;
// битый файл: читается как пустая сессия, выход и повторный вход его перезаписывают,
// сессия переживает перезапуск.

func TestStore_RoundTripAcrossInstances(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s1, err := New(path)
	require.NoError(t, err)

	_, ok, err := s1.GetItem(ctx, "auth_token")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s1.SetItem(ctx, "auth_token", "abc"))
	require.NoError(t, s1.SetItem(ctx, "user_data", `{"jwt":"abc"}`))

	s2, err := New(path)
	require.NoError(t, err)
	v, ok, err := s2.GetItem(ctx, "auth_token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", v)

	require.NoError(t, s2.RemoveItem(ctx, "auth_token"))
	require.NoError(t, s2.RemoveItem(ctx, "missing"))

	_, ok, _ = s1.GetItem(ctx, "auth_token")
	require.False(t, ok)
	v, ok, _ = s1.GetItem(ctx, "user_data")
	require.True(t, ok)
	require.Equal(t, `{"jwt":"abc"}`, v)

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.False(t, st.IsDir())
}

func TestStore_CorruptedReadsAsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	var buf bytes.Buffer
	ctx := log.Into(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	s, err := New(path)
	require.NoError(t, err)

	_, ok, err := s.GetItem(ctx, "auth_token")
	require.NoError(t, err)
	require.False(t, ok)
	require.Contains(t, buf.String(), "session_file_corrupted")

	// Удаление отсутствующего ключа всё равно заменяет битое содержимое.
	require.NoError(t, s.RemoveItem(ctx, "auth_token"))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(b))
}

func TestStore_CorruptedSessionRecoversOnLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	local, err := New(path)
	require.NoError(t, err)
	m := session.NewManager(memory.NewCookieJar(), local, time.Hour)

	require.NoError(t, m.Clear(ctx))

	resp := models.AuthResponse{JWT: "abc", User: models.User{ID: 1, Username: "alice", Email: "alice@mail.io"}}
	require.NoError(t, m.Save(ctx, resp))

	// Новый процесс: cookie пропали, остаётся только файл.
	reloaded, err := New(path)
	require.NoError(t, err)
	m2 := session.NewManager(memory.NewCookieJar(), reloaded, time.Hour)

	require.Equal(t, "abc", m2.Token(ctx))
	u := m2.User(ctx)
	require.NotNil(t, u)
	require.Equal(t, "alice", u.Username)
}

func TestNew_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := New("")
	require.Error(t, err)
}
