// Package service — прикладной слой поверх репозиториев контент-API.
//
// Правила:
//   - токен берётся из сессии; без токена любая операция возвращает ErrNoToken;
//   - списочные чтения деградируют до пустой корректной страницы (ошибка логируется);
//   - мутации строгие: категоризированная ошибка возвращается вызывающему.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/repository"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

var (
	// ErrNoToken — в сессии нет токена.
	// Транспорт: 401.
	ErrNoToken = errors.New("no auth token available")
	// ErrMissingDocumentID — пустой documentId у update/delete.
	// Транспорт: 400.
	ErrMissingDocumentID = errors.New("document id is required")
	// ErrInvalidArgument — пустое обязательное поле.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyUpload — сервер не вернул ни одного загруженного файла.
	ErrEmptyUpload = errors.New("invalid response from server")
)

// Sessions — хранилище сессии пользователя (см. session.Manager).
type Sessions interface {
	Save(ctx context.Context, resp models.AuthResponse) error
	Token(ctx context.Context) string
	User(ctx context.Context) *models.User
	Clear(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
}

// Размеры пустых страниц, которыми заменяются упавшие чтения.
const (
	categoriesPageSize = 100
	commentsPageSize   = 100
)

// Service — операции над статьями, категориями, комментариями, загрузками и сессией.
type Service struct {
	repos    repository.Repositories
	sessions Sessions
}

// New создает новый экземпляр Service.
func New(repos repository.Repositories, sessions Sessions) *Service {
	return &Service{
		repos:    repos,
		sessions: sessions,
	}
}

// token — токен сессии или ErrNoToken.
func (s *Service) token(ctx context.Context, op string) (string, error) {
	tok := s.sessions.Token(ctx)
	if tok == "" {
		log.From(ctx).Warn("no_auth_token", slog.String("op", op))
		return "", fmt.Errorf("%s: %w", op, ErrNoToken)
	}

	return tok, nil
}

func requireDocumentID(op, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingDocumentID)
	}

	return nil
}

// writeFailed логирует и оборачивает ошибку мутации.
func writeFailed(ctx context.Context, op, event string, err error) error {
	log.From(ctx).Error(event, slog.String("op", op), slog.String("err", err.Error()))
	return fmt.Errorf("%s: %w", op, err)
}
