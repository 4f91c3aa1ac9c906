package store

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/session"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// AuthService — операции сессии, нужные стору.
type AuthService interface {
	Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error)
	Register(ctx context.Context, creds models.RegisterCredentials) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	Token(ctx context.Context) string
	CurrentUser(ctx context.Context) *models.User
	IsAuthenticated(ctx context.Context) bool
}

type AuthState struct {
	User            *models.User
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           string
}

func (s AuthState) clone() AuthState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}

	return s
}

// AuthStore — состояние входа пользователя.
type AuthStore struct {
	svc      AuthService
	notifier Notifier
	c        *container[AuthState]
}

func NewAuthStore(svc AuthService, notifier Notifier) *AuthStore {
	if notifier == nil {
		notifier = LogNotifier{}
	}

	return &AuthStore{svc: svc, notifier: notifier, c: newContainer(AuthState{})}
}

func (s *AuthStore) State() AuthState { return s.c.snapshot() }

func (s *AuthStore) Subscribe(fn func(AuthState)) (unsubscribe func()) {
	return s.c.subscribe(fn)
}

// Login — при успехе стор переходит в состояние «вошёл» и показывает приветствие.
func (s *AuthStore) Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error) {
	const op = "store/auth/Login"

	s.begin()

	resp, err := s.svc.Login(ctx, creds)
	if err != nil {
		s.fail(ctx, err, "Login Failed", "Login failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.signedIn(resp)
	s.notifier.Notify(ctx, Notification{
		Title:       "Authentication Successful",
		Description: fmt.Sprintf("Welcome %s!", cmp.Or(resp.User.Username, resp.User.Email, "back")),
	})

	return resp, nil
}

// Register — как Login, но для нового пользователя.
func (s *AuthStore) Register(ctx context.Context, creds models.RegisterCredentials) (*models.AuthResponse, error) {
	const op = "store/auth/Register"

	s.begin()

	resp, err := s.svc.Register(ctx, creds)
	if err != nil {
		s.fail(ctx, err, "Registration Failed", "Registration failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.signedIn(resp)
	s.notifier.Notify(ctx, Notification{
		Title:       "Registration Successful",
		Description: fmt.Sprintf("Welcome %s!", cmp.Or(resp.User.Username, resp.User.Email, "to our platform")),
	})

	return resp, nil
}

// Logout очищает сессию и состояние. Состояние сбрасывается даже при ошибке хранилища.
func (s *AuthStore) Logout(ctx context.Context) error {
	const op = "store/auth/Logout"

	err := s.svc.Logout(ctx)
	s.c.update(func(st *AuthState) { *st = AuthState{} })

	s.notifier.Notify(ctx, Notification{Title: "Logged Out", Description: "You have been successfully logged out."})

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *AuthStore) ClearError() {
	s.c.update(func(st *AuthState) { st.Error = "" })
}

// CheckAuth сверяет стор с сохранённой сессией (старт приложения, перезагрузка).
// Несогласованная сессия (токен без пользователя, пользователь без токена,
// id в JWT не совпадает с пользователем) считается повреждённой: выполняется выход.
func (s *AuthStore) CheckAuth(ctx context.Context) bool {
	const op = "store/auth/CheckAuth"

	tok := s.svc.Token(ctx)
	user := s.svc.CurrentUser(ctx)

	if tok == "" && user == nil {
		s.c.update(func(st *AuthState) {
			st.User, st.Token, st.IsAuthenticated = nil, "", false
		})
		return false
	}

	if !session.Consistent(tok, user) {
		log.From(ctx).Warn("session_inconsistent",
			slog.String("op", op),
			slog.Bool("has_token", tok != ""),
			slog.Bool("has_user", user != nil),
		)

		if err := s.svc.Logout(ctx); err != nil {
			log.From(ctx).Error("session_clear_failed", slog.String("op", op), slog.String("err", err.Error()))
		}
		s.c.update(func(st *AuthState) {
			st.User, st.Token, st.IsAuthenticated = nil, "", false
		})

		return false
	}

	s.c.update(func(st *AuthState) {
		st.User, st.Token, st.IsAuthenticated = user, tok, true
	})

	return true
}

func (s *AuthStore) begin() {
	s.c.update(func(st *AuthState) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *AuthStore) signedIn(resp *models.AuthResponse) {
	u := resp.User

	s.c.update(func(st *AuthState) {
		*st = AuthState{User: &u, Token: resp.JWT, IsAuthenticated: true}
	})
}

func (s *AuthStore) fail(ctx context.Context, err error, title, fallback string) {
	msg := userMessage(err, fallback)

	s.c.update(func(st *AuthState) {
		st.Loading = false
		st.Error = msg
	})

	s.notifier.Notify(ctx, Notification{Title: title, Description: msg, Destructive: true})
}
