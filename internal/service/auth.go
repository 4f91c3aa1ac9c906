package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/pkg/redact"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// Login — вход по identifier/password; при успехе сессия сохраняется.
// Сбой записи сессии логируется и не отменяет вход.
func (s *Service) Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error) {
	const op = "service/auth/Login"

	lg := log.From(ctx).With(slog.String("op", op), slog.String("identifier", redact.Identifier(creds.Identifier)))

	resp, err := s.repos.Auth.Login(ctx, creds)
	if err != nil {
		lg.Warn("login_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.persist(ctx, lg, *resp)
	lg.Info("login_ok", slog.Int64("user_id", int64(resp.User.ID)))

	return resp, nil
}

// Register — регистрация; при успехе сессия сохраняется как после Login.
func (s *Service) Register(ctx context.Context, creds models.RegisterCredentials) (*models.AuthResponse, error) {
	const op = "service/auth/Register"

	lg := log.From(ctx).With(
		slog.String("op", op),
		slog.String("username", creds.Username),
		slog.String("email", redact.Email(creds.Email)),
	)

	resp, err := s.repos.Auth.Register(ctx, creds)
	if err != nil {
		lg.Warn("register_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.persist(ctx, lg, *resp)
	lg.Info("register_ok", slog.Int64("user_id", int64(resp.User.ID)))

	return resp, nil
}

func (s *Service) persist(ctx context.Context, lg *slog.Logger, resp models.AuthResponse) {
	if err := s.sessions.Save(ctx, resp); err != nil {
		lg.Error("session_persist_failed", slog.String("err", err.Error()))
	}
}

// Logout очищает сессию.
func (s *Service) Logout(ctx context.Context) error {
	const op = "service/auth/Logout"

	if err := s.sessions.Clear(ctx); err != nil {
		log.From(ctx).Error("session_clear_failed", slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Me — профиль владельца токена с сервера.
func (s *Service) Me(ctx context.Context) (*models.User, error) {
	const op = "service/auth/Me"

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	u, err := s.repos.Auth.Me(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *Service) Token(ctx context.Context) string { return s.sessions.Token(ctx) }

func (s *Service) CurrentUser(ctx context.Context) *models.User { return s.sessions.User(ctx) }

// IsAuthenticated — есть ли токен. Сервер не опрашивается.
func (s *Service) IsAuthenticated(ctx context.Context) bool { return s.sessions.IsAuthenticated(ctx) }
