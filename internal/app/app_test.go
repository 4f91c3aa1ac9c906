package app

// Сквозные тесты контейнера поверх strapitest:
//   - вход через форму, восстановление сессии новым экземпляром из файла local storage;
//   - ошибки формы не доходят до API;
//   - UseArticles без входа сбрасывает ленту и не ходит в сеть;
//   - фильтры ленты и их сброс;
//   - категории и комментарии end-to-end;
//   - неверные учётные данные и выход.
//
// Запуск:
//
//	go test ./internal/app -v

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pribylovaa/travel-blog/internal/apperrors"
	"github.com/pribylovaa/travel-blog/internal/config"
	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/store"
	"github.com/pribylovaa/travel-blog/internal/strapitest"
	"github.com/pribylovaa/travel-blog/internal/validation"
	"github.com/stretchr/testify/require"
)

const (
	alicePassword = "Secret1!"
	aliceToken    = "abc"
)

func testConfig(baseURL, localPath string) *config.Config {
	return &config.Config{
		Env: "local",
		API: config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second, UserAgent: "travel-blog-test"},
		Session: config.SessionConfig{
			CookieBackend: config.CookieBackendMemory,
			CookieTTL:     time.Hour,
			LocalPath:     localPath,
		},
		Upload: config.UploadConfig{Backend: config.UploadBackendAPI, MaxBytes: 1 << 20},
		Limits: config.LimitsConfig{ArticlesPageSize: 6, CategoriesPageSize: 100, CommentsPageSize: 100},
	}
}

// recNotifier копит уведомления; подключается через store.NotifierFunc.
type recNotifier struct {
	mu  sync.Mutex
	got []store.Notification
}

func (r *recNotifier) notifier() store.Notifier {
	return store.NotifierFunc(func(_ context.Context, n store.Notification) {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.got = append(r.got, n)
	})
}

func (r *recNotifier) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.got))
	for _, n := range r.got {
		out = append(out, n.Title)
	}

	return out
}

func newApp(t *testing.T, s *strapitest.Server, localPath string, opts ...Option) *App {
	t.Helper()

	a, err := New(context.Background(), testConfig(s.URL(), localPath), nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })

	return a
}

func newServer(t *testing.T) *strapitest.Server {
	t.Helper()

	s := strapitest.New()
	t.Cleanup(s.Close)
	s.AddUser("alice", "alice@mail.io", alicePassword, aliceToken)

	return s
}

func login(t *testing.T, a *App) {
	t.Helper()

	_, err := a.Login(context.Background(), validation.LoginForm{Identifier: "alice", Password: alicePassword})
	require.NoError(t, err)
}

func TestApp_LoginAndRestoreSession(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	localPath := filepath.Join(t.TempDir(), "session", "local.json")
	n := &recNotifier{}
	ctx := context.Background()

	a := newApp(t, s, localPath, WithNotifier(n.notifier()))
	require.False(t, a.UseAuth(ctx).IsAuthenticated)

	resp, err := a.Login(ctx, validation.LoginForm{Identifier: "  alice ", Password: alicePassword})
	require.NoError(t, err)
	require.Equal(t, aliceToken, resp.JWT)

	st := a.Auth().State()
	require.True(t, st.IsAuthenticated)
	require.Equal(t, "alice", st.User.Username)
	require.Equal(t, []string{"Authentication Successful"}, n.titles())

	// Новый экземпляр: cookie в памяти потеряны, токен и пользователь читаются из файла.
	b := newApp(t, s, localPath)
	restored := b.UseAuth(ctx)
	require.True(t, restored.IsAuthenticated)
	require.Equal(t, aliceToken, restored.Token)
	require.Equal(t, "alice", restored.User.Username)
}

func TestApp_LoginFormInvalid(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	a := newApp(t, s, "")
	before := s.Requests()

	_, err := a.Login(context.Background(), validation.LoginForm{Identifier: "al", Password: "short"})
	require.Error(t, err)

	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Contains(t, fe, "identifier")
	require.Contains(t, fe, "password")
	require.Equal(t, before, s.Requests())
	require.False(t, a.Auth().State().IsAuthenticated)
}

func TestApp_LoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	n := &recNotifier{}
	a := newApp(t, s, "", WithNotifier(n.notifier()))

	_, err := a.Login(context.Background(), validation.LoginForm{Identifier: "alice", Password: "Wrong1!pass"})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))

	st := a.Auth().State()
	require.False(t, st.IsAuthenticated)
	require.NotEmpty(t, st.Error)
	require.Equal(t, []string{"Login Failed"}, n.titles())
}

func TestApp_RegisterPasswordMismatch(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	a := newApp(t, s, "")

	_, err := a.Register(context.Background(), validation.RegisterForm{
		Username:        "bob",
		Email:           "bob@mail.io",
		Password:        "Secret1!",
		ConfirmPassword: "Secret2!",
	})

	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Contains(t, fe, "confirmPassword")
}

func TestApp_Register(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	a := newApp(t, s, "")
	ctx := context.Background()

	resp, err := a.Register(ctx, validation.RegisterForm{
		Username:        "bob",
		Email:           "bob@mail.io",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.JWT)
	require.True(t, a.UseAuth(ctx).IsAuthenticated)

	_, err = a.Register(ctx, validation.RegisterForm{
		Username:        "bob",
		Email:           "bob@mail.io",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
	})
	require.True(t, errors.Is(err, apperrors.ErrUserExists))
}

func TestApp_UseArticles_Unauthenticated(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	s.AddArticle("Alps", "snow", "")
	a := newApp(t, s, "")
	before := s.Requests()

	st, err := a.UseArticles(context.Background())
	require.NoError(t, err)
	require.Empty(t, st.Articles)
	require.False(t, st.Loading)
	require.Equal(t, 1, st.Page)
	require.Equal(t, before, s.Requests())
}

func TestApp_ArticleFeedAndFilters(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	s.AddCategory("Beach")
	s.AddCategory("Mountains")
	s.AddArticle("Sunny beach", "sand", "Beach")
	s.AddArticle("Alps", "snow", "Mountains")
	s.AddArticle("Beach bar", "drinks", "Beach")

	a := newApp(t, s, "")
	ctx := context.Background()
	login(t, a)

	st, err := a.UseArticles(ctx)
	require.NoError(t, err)
	require.Len(t, st.Articles, 3)
	require.False(t, st.HasMore)
	require.Equal(t, models.ArticleFilters{}, st.Filters)

	st, err = a.ApplyFilters(ctx, validation.FilterForm{Category: "beach", SortBy: "title_asc"})
	require.NoError(t, err)
	require.Len(t, st.Articles, 2)
	require.Equal(t, "Beach bar", st.Articles[0].Title)
	require.Equal(t, "Sunny beach", st.Articles[1].Title)
	require.Equal(t, models.SortTitleAsc, st.Filters.SortBy)

	st, err = a.ApplyFilters(ctx, validation.FilterForm{SearchTerm: " alp "})
	require.NoError(t, err)
	require.Len(t, st.Articles, 1)
	require.Equal(t, "alp", st.Filters.SearchTerm)
	require.Equal(t, models.SortLatest, st.Filters.SortBy)

	_, err = a.ApplyFilters(ctx, validation.FilterForm{SortBy: "random"})
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Contains(t, fe, "sortBy")

	st, err = a.ClearFilters(ctx)
	require.NoError(t, err)
	require.Len(t, st.Articles, 3)
	require.Equal(t, "Beach bar", st.Articles[0].Title)
	require.Equal(t, models.ArticleFilters{SortBy: models.SortLatest}, st.Filters)
}

func TestApp_LoadMore(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	for _, title := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"} {
		s.AddArticle(title, "d", "")
	}

	a := newApp(t, s, "")
	ctx := context.Background()
	login(t, a)

	st, err := a.UseArticles(ctx)
	require.NoError(t, err)
	require.Len(t, st.Articles, 6)
	require.True(t, st.HasMore)

	_, err = a.Articles().LoadMoreArticles(ctx)
	require.NoError(t, err)

	st = a.Articles().State()
	require.Len(t, st.Articles, 8)
	require.Equal(t, 2, st.Page)
	require.False(t, st.HasMore)

	resp, err := a.Articles().LoadMoreArticles(ctx)
	require.NoError(t, err)
	require.Nil(t, resp)
}

func TestApp_CategoryRoundTrip(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	a := newApp(t, s, "")
	ctx := context.Background()
	login(t, a)

	created, err := a.Categories().CreateCategory(ctx, models.CategoryInput{Name: "Beach"})
	require.NoError(t, err)
	require.NotEmpty(t, created.DocumentID)

	require.NoError(t, a.Categories().FetchCategories(ctx))

	names := []string{}
	for _, c := range a.Categories().State().Categories {
		names = append(names, c.Name)
	}
	require.Contains(t, names, "Beach")

	require.NoError(t, a.Categories().DeleteCategory(ctx, created.DocumentID))
	require.Empty(t, a.Categories().State().Categories)
}

func TestApp_CommentsFlow(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	art := s.AddArticle("Alps", "snow", "")
	n := &recNotifier{}
	a := newApp(t, s, "", WithNotifier(n.notifier()))
	ctx := context.Background()
	login(t, a)

	comments := a.Comments()
	require.NoError(t, comments.FetchComments(ctx, art.ID, art.Title))
	require.Empty(t, comments.Comments(art.ID))

	require.NoError(t, comments.AddComment(ctx, "  Great trip ", art.ID))
	got := comments.Comments(art.ID)
	require.Len(t, got, 1)
	require.Equal(t, "Great trip", got[0].Content)
	require.Len(t, s.Comments(art.ID), 1)

	require.NoError(t, comments.UpdateComment(ctx, got[0].DocumentID, "Amazing trip"))
	require.Equal(t, "Amazing trip", comments.Comments(art.ID)[0].Content)

	require.NoError(t, comments.DeleteComment(ctx, got[0].DocumentID))
	require.Empty(t, comments.Comments(art.ID))
	require.Empty(t, s.Comments(art.ID))

	require.Equal(t, []string{
		"Authentication Successful",
		"Comment Added",
		"Comment Updated",
		"Comment Deleted",
	}, n.titles())
}

func TestApp_Logout(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	s.AddArticle("Alps", "snow", "")
	a := newApp(t, s, filepath.Join(t.TempDir(), "local.json"))
	ctx := context.Background()
	login(t, a)

	st, err := a.UseArticles(ctx)
	require.NoError(t, err)
	require.Len(t, st.Articles, 1)

	require.NoError(t, a.Auth().Logout(ctx))
	require.False(t, a.UseAuth(ctx).IsAuthenticated)

	st, err = a.UseArticles(ctx)
	require.NoError(t, err)
	require.Empty(t, st.Articles)

	_, err = a.Service().Articles(ctx, models.ArticleQuery{Page: 1, PageSize: 6})
	require.Error(t, err)
}

func TestNew_BadConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig("not a url", "")
	_, err := New(context.Background(), cfg, nil)
	require.Error(t, err)
}
