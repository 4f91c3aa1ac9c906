// Package session — хранение сессии пользователя на стороне клиента.
//
// Токен пишется в два места: «cookie» с TTL (по умолчанию 7 дней) и постоянное
// «local storage», где рядом лежит сериализованный ответ {jwt, user}.
// Чтение токена идёт сначала из cookie, затем из local storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

const (
	KeyToken = "auth_token"
	KeyUser  = "user_data"

	DefaultCookieTTL = 7 * 24 * time.Hour
)

// CookieStore — key/value с временем жизни записи.
type CookieStore interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string, ttl time.Duration) error
	Delete(ctx context.Context, name string) error
}

// LocalStore — постоянное key/value без TTL.
type LocalStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

type Manager struct {
	cookies CookieStore
	local   LocalStore
	ttl     time.Duration
	now     func() time.Time
}

// NewManager — ttl <= 0 означает DefaultCookieTTL.
func NewManager(cookies CookieStore, local LocalStore, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultCookieTTL
	}

	return &Manager{cookies: cookies, local: local, ttl: ttl, now: time.Now}
}

// Save сохраняет сессию. Ответ без jwt не сохраняется.
// TTL cookie ограничивается сроком жизни токена (claim exp), если он ближе.
func (m *Manager) Save(ctx context.Context, resp models.AuthResponse) error {
	const op = "session/Save"

	if resp.JWT == "" {
		return nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = errors.Join(
		m.local.SetItem(ctx, KeyToken, resp.JWT),
		m.local.SetItem(ctx, KeyUser, string(data)),
		m.cookies.Set(ctx, KeyToken, resp.JWT, m.cookieTTL(resp.JWT)),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Token — токен из cookie, иначе из local storage, иначе "".
// Ошибки хранилищ логируются и трактуются как отсутствие токена.
func (m *Manager) Token(ctx context.Context) string {
	const op = "session/Token"

	tok, ok, err := m.cookies.Get(ctx, KeyToken)
	if err != nil {
		log.From(ctx).Warn("session_cookie_read_failed", slog.String("op", op), slog.String("err", err.Error()))
	}
	if ok && tok != "" {
		return tok
	}

	tok, ok, err = m.local.GetItem(ctx, KeyToken)
	if err != nil {
		log.From(ctx).Warn("session_local_read_failed", slog.String("op", op), slog.String("err", err.Error()))
		return ""
	}
	if !ok {
		return ""
	}

	return tok
}

// User — пользователь из сохранённой сессии или nil.
func (m *Manager) User(ctx context.Context) *models.User {
	const op = "session/User"

	raw, ok, err := m.local.GetItem(ctx, KeyUser)
	if err != nil {
		log.From(ctx).Warn("session_local_read_failed", slog.String("op", op), slog.String("err", err.Error()))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var resp models.AuthResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		log.From(ctx).Warn("session_user_corrupted", slog.String("op", op), slog.String("err", err.Error()))
		return nil
	}

	return &resp.User
}

// Clear удаляет сессию из обоих хранилищ.
func (m *Manager) Clear(ctx context.Context) error {
	const op = "session/Clear"

	err := errors.Join(
		m.local.RemoveItem(ctx, KeyToken),
		m.local.RemoveItem(ctx, KeyUser),
		m.cookies.Delete(ctx, KeyToken),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsAuthenticated — есть ли токен; подпись и срок на сервере не проверяются.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.Token(ctx) != ""
}

func (m *Manager) cookieTTL(token string) time.Duration {
	c, ok := ParseClaims(token)
	if !ok || c.ExpiresAt.IsZero() {
		return m.ttl
	}

	left := c.ExpiresAt.Sub(m.now())
	if left > 0 && left < m.ttl {
		return left
	}

	return m.ttl
}
