package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/store"
	"github.com/pribylovaa/travel-blog/internal/validation"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// UseArticles — лента для текущей сессии: при входе загружает первую страницу,
// без входа сбрасывает стор в исходное состояние.
func (a *App) UseArticles(ctx context.Context) (store.ArticleState, error) {
	const op = "internal/app/UseArticles"

	if !a.auth.State().IsAuthenticated {
		a.articles.ResetArticles()
		return a.articles.State(), nil
	}

	if _, err := a.articles.FetchArticles(ctx, 0, nil); err != nil {
		return a.articles.State(), fmt.Errorf("%s: %w", op, err)
	}

	return a.articles.State(), nil
}

// UseAuth сверяет стор авторизации с сохранённой сессией и возвращает его состояние.
func (a *App) UseAuth(ctx context.Context) store.AuthState {
	a.auth.CheckAuth(ctx)
	return a.auth.State()
}

// Login проверяет форму и выполняет вход. Ошибки формы — validation.FieldErrors.
func (a *App) Login(ctx context.Context, form validation.LoginForm) (*models.AuthResponse, error) {
	const op = "internal/app/Login"

	if errs := validation.Validate(form); errs != nil {
		log.From(ctx).Debug("login_form_invalid", slog.String("op", op), slog.Int("fields", len(errs)))
		return nil, fmt.Errorf("%s: %w", op, errs)
	}

	resp, err := a.auth.Login(ctx, form.Credentials())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// Register проверяет форму регистрации (включая совпадение паролей) и регистрирует пользователя.
func (a *App) Register(ctx context.Context, form validation.RegisterForm) (*models.AuthResponse, error) {
	const op = "internal/app/Register"

	if errs := validation.Validate(form); errs != nil {
		log.From(ctx).Debug("register_form_invalid", slog.String("op", op), slog.Int("fields", len(errs)))
		return nil, fmt.Errorf("%s: %w", op, errs)
	}

	resp, err := a.auth.Register(ctx, form.Credentials())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// ApplyFilters применяет форму фильтров: пустая сортировка означает latest.
func (a *App) ApplyFilters(ctx context.Context, form validation.FilterForm) (store.ArticleState, error) {
	const op = "internal/app/ApplyFilters"

	form = form.Normalize()
	if errs := validation.Validate(form); errs != nil {
		return a.articles.State(), fmt.Errorf("%s: %w", op, errs)
	}

	if _, err := a.articles.SetFilters(ctx, form.Filters()); err != nil {
		return a.articles.State(), fmt.Errorf("%s: %w", op, err)
	}

	return a.articles.State(), nil
}

// ClearFilters сбрасывает поиск и категорию, сортировка — latest.
func (a *App) ClearFilters(ctx context.Context) (store.ArticleState, error) {
	return a.ApplyFilters(ctx, validation.FilterForm{})
}
