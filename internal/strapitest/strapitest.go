// Package strapitest — in-memory фейк контент-API (Strapi v5) для тестов.
//
// Поддерживает ровно тот контракт, которым пользуется клиент: вход/регистрация,
// /users/me, CRUD статей, категорий и комментариев с конвертами {data, meta},
// фильтры и сортировку ленты, загрузку файлов. Данные живут до Close.
package strapitest

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/travel-blog/internal/models"
)

type user struct {
	models.User
	password string
	token    string
}

type comment struct {
	models.Comment
	articleID models.ID
}

// Server — фейковый API поверх httptest.Server.
type Server struct {
	srv      *httptest.Server
	requests atomic.Int64

	mu         sync.Mutex
	nextID     int64
	now        time.Time
	users      []*user
	articles   []*models.Article
	categories []*models.Category
	comments   []*comment
	uploads    []models.UploadedFile
}

// New запускает сервер. API доступен по URL().
func New() *Server {
	s := &Server{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	r := chi.NewRouter()
	r.Use(s.count)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/local", s.login)
		r.Post("/auth/local/register", s.register)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticated)

			r.Get("/users/me", s.me)

			r.Get("/articles", s.listArticles)
			r.Post("/articles", s.createArticle)
			r.Put("/articles/{documentID}", s.updateArticle)
			r.Delete("/articles/{documentID}", s.deleteArticle)

			r.Get("/categories", s.listCategories)
			r.Post("/categories", s.createCategory)
			r.Put("/categories/{documentID}", s.updateCategory)
			r.Delete("/categories/{documentID}", s.deleteCategory)

			r.Get("/comments", s.listComments)
			r.Post("/comments", s.createComment)
			r.Put("/comments/{documentID}", s.updateComment)
			r.Delete("/comments/{documentID}", s.deleteComment)

			r.Post("/upload", s.upload)
		})
	})

	s.srv = httptest.NewServer(r)

	return s
}

// URL — базовый адрес API (с суффиксом /api).
func (s *Server) URL() string { return s.srv.URL + "/api" }

func (s *Server) Close() { s.srv.Close() }

// Requests — число принятых HTTP-запросов.
func (s *Server) Requests() int64 { return s.requests.Load() }

// AddUser регистрирует пользователя с заданным токеном.
func (s *Server) AddUser(username, email, password, token string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addUserLocked(username, email, password, token).User
}

// AddCategory добавляет категорию.
func (s *Server) AddCategory(name string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.addCategoryLocked(models.CategoryInput{Name: name})
}

// AddArticle добавляет статью; categoryName может быть пустым.
func (s *Server) AddArticle(title, description, categoryName string) models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := &models.Article{
		ID:          s.id(),
		DocumentID:  uuid.NewString(),
		Title:       title,
		Description: description,
	}
	a.CreatedAt, a.UpdatedAt, a.PublishedAt = s.tick(), s.now, s.now

	for _, c := range s.categories {
		if categoryName != "" && strings.EqualFold(c.Name, categoryName) {
			cc := *c
			a.Category = &cc
		}
	}

	s.articles = append(s.articles, a)

	return s.viewLocked(a)
}

// Comments — комментарии статьи в порядке создания.
func (s *Server) Comments(articleID models.ID) []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Comment{}
	for _, c := range s.comments {
		if c.articleID == articleID {
			out = append(out, c.Comment)
		}
	}

	return out
}

// Uploads — метаданные загруженных файлов.
func (s *Server) Uploads() []models.UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.uploads)
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

type ctxUser struct{}

func withUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, ctxUser{}, u)
}

func userFrom(ctx context.Context) models.User {
	u, _ := ctx.Value(ctxUser{}).(models.User)
	return u
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tok == "" {
			writeError(w, http.StatusForbidden, "ForbiddenError", "Forbidden")
			return
		}

		s.mu.Lock()
		var found *user
		for _, u := range s.users {
			if u.token == tok {
				found = u
			}
		}
		s.mu.Unlock()

		if found == nil {
			writeError(w, http.StatusUnauthorized, "UnauthorizedError", "Missing or invalid credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), found.User)))
	})
}

func (s *Server) id() models.ID {
	s.nextID++
	return models.ID(s.nextID)
}

// tick — монотонное время: каждая запись получает свою отметку.
func (s *Server) tick() time.Time {
	s.now = s.now.Add(time.Minute)
	return s.now
}

func (s *Server) addUserLocked(username, email, password, token string) *user {
	u := &user{
		User: models.User{
			ID:        s.id(),
			Username:  username,
			Email:     email,
			Provider:  "local",
			Confirmed: true,
			CreatedAt: s.tick(),
			UpdatedAt: s.now,
		},
		password: password,
		token:    token,
	}
	s.users = append(s.users, u)

	return u
}

func (s *Server) addCategoryLocked(in models.CategoryInput) *models.Category {
	c := &models.Category{
		ID:          s.id(),
		DocumentID:  uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
	}
	c.CreatedAt, c.UpdatedAt, c.PublishedAt = s.tick(), s.now, s.now
	s.categories = append(s.categories, c)

	return c
}

// viewLocked — статья с вложенными комментариями (populate=*).
func (s *Server) viewLocked(a *models.Article) models.Article {
	out := *a
	out.Comments = []models.Comment{}
	for _, c := range s.comments {
		if c.articleID == a.ID {
			out.Comments = append(out.Comments, c.Comment)
		}
	}

	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError — формат ошибки Strapi: {data: null, error: {status, name, message}}.
func writeError(w http.ResponseWriter, status int, name, message string) {
	writeJSON(w, status, map[string]any{
		"data": nil,
		"error": map[string]any{
			"status":  status,
			"name":    name,
			"message": message,
			"details": map[string]any{},
		},
	})
}

func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "NotFoundError", "Not Found")
}

func decodeData[T any](r *http.Request) (T, error) {
	var body struct {
		Data T `json:"data"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)

	return body.Data, err
}

func paginate[T any](items []T, r *http.Request, defaultSize int) ([]T, models.Pagination) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("pagination[page]"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(q.Get("pagination[pageSize]"))
	if size < 1 {
		size = defaultSize
	}

	total := len(items)
	p := models.Pagination{Page: page, PageSize: size, Total: total, PageCount: (total + size - 1) / size}

	from := min((page-1)*size, total)
	to := min(from+size, total)

	return items[from:to], p
}

func sortArticles(list []models.Article, key string) {
	field, dir, _ := strings.Cut(key, ":")
	sign := 1
	if dir == "desc" {
		sign = -1
	}

	sort.SliceStable(list, func(i, j int) bool {
		return sign*compareArticles(list[i], list[j], field) < 0
	})
}

func compareArticles(a, b models.Article, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "publishedAt":
		return a.PublishedAt.Compare(b.PublishedAt)
	}

	return cmp.Compare(a.ID, b.ID)
}

func badRequest(w http.ResponseWriter, format string, args ...any) {
	writeError(w, http.StatusBadRequest, "ValidationError", fmt.Sprintf(format, args...))
}
