package strapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/apperrors"
	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/repository"
	"github.com/stretchr/testify/require"
)

// Тесты для internal/repository/strapi.
//
// Покрытие:
//   - ListArticles: параметры пагинации/populate/фильтров/сортировки, пустые фильтры не уходят,
//     деградация до пустой страницы при ошибке API;
//   - ArticleByTitle: $eqi-фильтр, категоризированная ошибка;
//   - мутации статей/категорий/комментариев: метод, путь, тело {"data": ...}, токен;
//   - пустой documentId отклоняется без запроса;
//   - Login/Register: form-urlencoded, UserExists/InvalidCredentials; Me с токеном.

type recorded struct {
	method string
	path   string
	query  url.Values
	auth   string
	ctype  string
	body   []byte
}

type fakeAPI struct {
	t      *testing.T
	mu     sync.Mutex
	status int
	resp   string
	calls  []recorded
}

func newFakeAPI(t *testing.T, status int, resp string) (*fakeAPI, *Repository) {
	t.Helper()

	f := &fakeAPI{t: t, status: status, resp: resp}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		defer f.mu.Unlock()

		f.calls = append(f.calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			auth:   r.Header.Get("Authorization"),
			ctype:  r.Header.Get("Content-Type"),
			body:   b,
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.resp)
	}))
	t.Cleanup(srv.Close)

	c, err := apiclient.New(srv.URL + "/api")
	require.NoError(t, err)

	return f, New(c, Limits{UploadMaxBytes: 1 << 20})
}

func (f *fakeAPI) set(status int, resp string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.resp = status, resp
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) last() recorded {
	f.t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(f.t, f.calls)
	return f.calls[len(f.calls)-1]
}

const articlePage = `{"data":[{"id":1,"documentId":"doc-1","title":"Alps"}],"meta":{"pagination":{"page":2,"pageSize":6,"pageCount":3,"total":14}}}`

func TestListArticles_Params(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filters models.ArticleFilters
		want    map[string]string
		absent  []string
	}{
		{
			name:   "no_filters",
			want:   map[string]string{"pagination[page]": "2", "pagination[pageSize]": "6", "populate": "*"},
			absent: []string{"filters[title][$containsi]", "filters[category][name][$eqi]", "sort[0]"},
		},
		{
			name:    "all_filters",
			filters: models.ArticleFilters{SearchTerm: " alps ", CategoryName: "Mountains", SortBy: models.SortTitleAsc},
			want: map[string]string{
				"filters[title][$containsi]":    "alps",
				"filters[category][name][$eqi]": "Mountains",
				"sort[0]":                       "title:asc",
			},
		},
		{
			name:    "oldest",
			filters: models.ArticleFilters{SortBy: models.SortOldest},
			want:    map[string]string{"sort[0]": "publishedAt:asc"},
		},
		{
			name:    "unknown_sort_skipped",
			filters: models.ArticleFilters{SortBy: "random"},
			absent:  []string{"sort[0]"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, repo := newFakeAPI(t, http.StatusOK, articlePage)

			got, err := repo.ListArticles(context.Background(), "tok", models.ArticleQuery{Page: 2, PageSize: 6, Filters: tt.filters})
			require.NoError(t, err)
			require.Len(t, got.Data, 1)
			require.Equal(t, "doc-1", got.Data[0].DocumentID)
			require.True(t, got.Meta.Pagination.HasMore())

			call := f.last()
			require.Equal(t, http.MethodGet, call.method)
			require.Equal(t, "/api/articles", call.path)
			require.Equal(t, "Bearer tok", call.auth)
			for k, v := range tt.want {
				require.Equal(t, v, call.query.Get(k), k)
			}
			for _, k := range tt.absent {
				require.False(t, call.query.Has(k), k)
			}
		})
	}
}

func TestListArticles_DefaultsPageAndSize(t *testing.T) {
	t.Parallel()

	f, repo := newFakeAPI(t, http.StatusOK, `{"data":null,"meta":{"pagination":{"page":1}}}`)

	got, err := repo.ListArticles(context.Background(), "tok", models.ArticleQuery{})
	require.NoError(t, err)
	require.NotNil(t, got.Data)

	require.Equal(t, "1", f.last().query.Get("pagination[page]"))
	require.Equal(t, "6", f.last().query.Get("pagination[pageSize]"))
}

func TestListArticles_FailureReturnsEmptyPage(t *testing.T) {
	t.Parallel()

	_, repo := newFakeAPI(t, http.StatusInternalServerError, `{"error":{"message":"db down"}}`)

	got, err := repo.ListArticles(context.Background(), "tok", models.ArticleQuery{Page: 3, PageSize: 9})
	require.NoError(t, err)
	require.Equal(t, models.EmptyList[models.Article](9), got)
}

func TestArticleByTitle(t *testing.T) {
	t.Parallel()

	f, repo := newFakeAPI(t, http.StatusOK, `{"data":[{"id":42,"documentId":"d42","title":"My Trip","comments":[{"id":1,"documentId":"c1","content":"hi"}]}],"meta":{}}`)

	got, err := repo.ArticleByTitle(context.Background(), "tok", "My Trip")
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	require.Len(t, got.Data[0].Comments, 1)

	q := f.last().query
	require.Equal(t, "My Trip", q.Get("filters[title][$eqi]"))
	require.Equal(t, "*", q.Get("populate"))

	f.set(http.StatusForbidden, `{}`)
	_, err = repo.ArticleByTitle(context.Background(), "tok", "My Trip")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestArticleMutations(t *testing.T) {
	t.Parallel()

	f, repo := newFakeAPI(t, http.StatusOK, `{"data":{"id":5,"documentId":"doc-5","title":"New"}}`)
	ctx := context.Background()

	title, desc := "New", "Text"
	cat := models.ID(3)
	created, err := repo.CreateArticle(ctx, "tok", models.ArticleInput{Title: &title, Description: &desc, Category: &cat})
	require.NoError(t, err)
	require.Equal(t, "doc-5", created.DocumentID)

	call := f.last()
	require.Equal(t, http.MethodPost, call.method)
	require.Equal(t, "/api/articles", call.path)
	require.JSONEq(t, `{"data":{"title":"New","description":"Text","category":3}}`, string(call.body))

	_, err = repo.UpdateArticle(ctx, "tok", "doc-5", models.ArticleInput{Title: &title})
	require.NoError(t, err)
	call = f.last()
	require.Equal(t, http.MethodPut, call.method)
	require.Equal(t, "/api/articles/doc-5", call.path)
	require.JSONEq(t, `{"data":{"title":"New"}}`, string(call.body))

	f.set(http.StatusNoContent, "")
	require.NoError(t, repo.DeleteArticle(ctx, "tok", "doc-5"))
	require.Equal(t, http.MethodDelete, f.last().method)
	require.Equal(t, "/api/articles/doc-5", f.last().path)

	n := f.count()
	_, err = repo.UpdateArticle(ctx, "tok", "", models.ArticleInput{Title: &title})
	require.ErrorIs(t, err, repository.ErrInvalidArgument)
	require.ErrorIs(t, repo.DeleteArticle(ctx, "tok", ""), repository.ErrInvalidArgument)
	require.Equal(t, n, f.count(), "без documentId запрос не уходит")

	f.set(http.StatusBadRequest, `{"error":{"name":"ValidationError","message":"title is required"}}`)
	_, err = repo.CreateArticle(ctx, "tok", models.ArticleInput{})
	var ae *apperrors.AppError
	require.True(t, errors.As(err, &ae))
	require.Equal(t, apperrors.ValidationError, ae.Type)
	require.Equal(t, "title is required", ae.Message)
}

func TestCategories(t *testing.T) {
	t.Parallel()

	f, repo := newFakeAPI(t, http.StatusOK, `{"data":[{"id":"1","documentId":"c1","name":"Beach"}],"meta":{}}`)
	ctx := context.Background()

	list, err := repo.ListCategories(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, models.ID(1), list.Data[0].ID)
	require.Equal(t, "100", f.last().query.Get("pagination[pageSize]"))

	f.set(http.StatusOK, `{"data":{"id":2,"documentId":"c2","name":"Forest"}}`)
	c, err := repo.CreateCategory(ctx, "tok", models.CategoryInput{Name: "Forest"})
	require.NoError(t, err)
	require.Equal(t, "Forest", c.Name)
	require.JSONEq(t, `{"data":{"name":"Forest"}}`, string(f.last().body))

	_, err = repo.UpdateCategory(ctx, "tok", "c2", models.CategoryInput{Name: "Woods"})
	require.NoError(t, err)
	require.Equal(t, "/api/categories/c2", f.last().path)
	require.Equal(t, http.MethodPut, f.last().method)

	require.NoError(t, repo.DeleteCategory(ctx, "tok", "c2"))
	require.Equal(t, http.MethodDelete, f.last().method)
}

func TestComments(t *testing.T) {
	t.Parallel()

	f, repo := newFakeAPI(t, http.StatusOK, `{"data":[],"meta":{}}`)
	ctx := context.Background()

	_, err := repo.ListComments(ctx, "tok", 42)
	require.NoError(t, err)
	q := f.last().query
	require.Equal(t, "42", q.Get("filters[article][id][$eq]"))
	require.Equal(t, "createdAt:desc", q.Get("sort"))
	require.Equal(t, "100", q.Get("pagination[pageSize]"))

	f.set(http.StatusOK, `{"data":{"id":9,"documentId":"cm9","content":"Nice"}}`)
	_, err = repo.CreateComment(ctx, "tok", "Nice", 42)
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"content":"Nice","article":42}}`, string(f.last().body))

	_, err = repo.UpdateComment(ctx, "tok", "cm9", "Edited")
	require.NoError(t, err)
	require.Equal(t, "/api/comments/cm9", f.last().path)
	require.JSONEq(t, `{"data":{"content":"Edited"}}`, string(f.last().body))

	require.NoError(t, repo.DeleteComment(ctx, "tok", "cm9"))
	require.Equal(t, http.MethodDelete, f.last().method)
}

func TestAuth(t *testing.T) {
	t.Parallel()

	f, repo := newFakeAPI(t, http.StatusOK, `{"jwt":"abc","user":{"id":1,"username":"alice","email":"alice@mail.io"}}`)
	ctx := context.Background()

	resp, err := repo.Login(ctx, models.LoginCredentials{Identifier: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "abc", resp.JWT)
	require.Equal(t, "alice", resp.User.Username)

	call := f.last()
	require.Equal(t, "/api/auth/local", call.path)
	require.Equal(t, "application/x-www-form-urlencoded", call.ctype)
	require.Empty(t, call.auth)
	form, err := url.ParseQuery(string(call.body))
	require.NoError(t, err)
	require.Equal(t, "alice", form.Get("identifier"))
	require.Equal(t, "secret123", form.Get("password"))

	_, err = repo.Register(ctx, models.RegisterCredentials{Username: "bob", Email: "bob@mail.io", Password: "Secret1!"})
	require.NoError(t, err)
	require.Equal(t, "/api/auth/local/register", f.last().path)

	f.set(http.StatusBadRequest, `{"error":{"name":"ApplicationError","message":"Email or Username are already taken"}}`)
	_, err = repo.Register(ctx, models.RegisterCredentials{Username: "bob", Email: "bob@mail.io", Password: "Secret1!"})
	require.ErrorIs(t, err, apperrors.ErrUserExists)

	f.set(http.StatusBadRequest, `{"error":{"name":"ValidationError","message":"Invalid identifier or password"}}`)
	_, err = repo.Login(ctx, models.LoginCredentials{Identifier: "alice", Password: "bad"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	f.set(http.StatusOK, `{"id":1,"username":"alice"}`)
	u, err := repo.Me(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, "/api/users/me", f.last().path)
	require.Equal(t, "Bearer abc", f.last().auth)
}

func TestDataBodyShape(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(dataBody[commentCreate]{Data: commentCreate{Content: "x", Article: 7}})
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"content":"x","article":7}}`, string(b))
}
