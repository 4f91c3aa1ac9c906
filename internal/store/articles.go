package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/service"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// DefaultArticlesPageSize — размер страницы ленты статей по умолчанию.
const DefaultArticlesPageSize = 6

// ArticleService — операции над статьями, нужные стору.
type ArticleService interface {
	Articles(ctx context.Context, q models.ArticleQuery) (*models.ArticleList, error)
	CreateArticle(ctx context.Context, in models.ArticleInput) (*models.Article, error)
	UpdateArticle(ctx context.Context, documentID string, in models.ArticleInput) (*models.Article, error)
	DeleteArticle(ctx context.Context, documentID string) error
}

// ArticleState — снимок ленты статей.
type ArticleState struct {
	Articles []models.Article
	Loading  bool
	Error    string
	HasMore  bool
	Page     int
	PageSize int
	Filters  models.ArticleFilters
}

func (s ArticleState) clone() ArticleState {
	s.Articles = slices.Clone(s.Articles)
	return s
}

func initialArticleState(pageSize int) ArticleState {
	return ArticleState{
		Articles: []models.Article{},
		HasMore:  true,
		Page:     1,
		PageSize: pageSize,
	}
}

// ArticleStore — лента статей с пагинацией «загрузить ещё» и фильтрами.
//
// Конкурентные выборки не объединяются: каждая FetchArticles/LoadMoreArticles
// получает номер поколения, и ответ применяется, только если поколение не сменилось.
// Устаревший ответ отбрасывается с ErrSuperseded.
type ArticleStore struct {
	svc      ArticleService
	notifier Notifier
	pageSize int

	c   *container[ArticleState]
	gen uint64 // guarded by c.mu
}

// NewArticleStore — pageSize <= 0 означает DefaultArticlesPageSize.
func NewArticleStore(svc ArticleService, notifier Notifier, pageSize int) *ArticleStore {
	if pageSize <= 0 {
		pageSize = DefaultArticlesPageSize
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}

	return &ArticleStore{
		svc:      svc,
		notifier: notifier,
		pageSize: pageSize,
		c:        newContainer(initialArticleState(pageSize)),
	}
}

func (s *ArticleStore) State() ArticleState { return s.c.snapshot() }

// Subscribe — fn вызывается с копией состояния после каждого изменения.
func (s *ArticleStore) Subscribe(fn func(ArticleState)) (unsubscribe func()) {
	return s.c.subscribe(fn)
}

// FetchArticles загружает первую страницу и заменяет ленту целиком.
// pageSize <= 0 — текущий размер страницы; filters == nil — текущие фильтры.
func (s *ArticleStore) FetchArticles(ctx context.Context, pageSize int, filters *models.ArticleFilters) (*models.ArticleList, error) {
	const op = "store/articles/FetchArticles"

	var (
		gen uint64
		q   models.ArticleQuery
	)
	s.c.update(func(st *ArticleState) {
		s.gen++
		gen = s.gen

		if pageSize <= 0 {
			pageSize = st.PageSize
		}
		q = models.ArticleQuery{Page: 1, PageSize: pageSize, Filters: st.Filters}
		if filters != nil {
			q.Filters = *filters
		}

		st.Loading = true
		st.Error = ""
	})

	resp, err := s.svc.Articles(ctx, q)

	var msg string
	applied := s.c.apply(func(st *ArticleState) bool {
		if s.gen != gen {
			return false
		}

		st.Loading = false

		switch {
		case errors.Is(err, service.ErrNoToken), err == nil && resp == nil:
			st.Articles = []models.Article{}
			st.HasMore = false
			st.Error = "Unable to fetch articles"
		case err != nil:
			msg = userMessage(err, "Failed to fetch articles")
			st.Error = msg
		default:
			st.Articles = nonNil(resp.Data)
			st.Page = 1
			st.PageSize = q.PageSize
			st.HasMore = resp.Meta.Pagination.HasMore()
			st.Error = ""
			if filters != nil {
				st.Filters = *filters
			}
		}

		return true
	})
	if !applied {
		log.From(ctx).Debug("articles_response_discarded", slog.String("op", op))
		return nil, fmt.Errorf("%s: %w", op, ErrSuperseded)
	}

	if msg != "" {
		s.notifier.Notify(ctx, Notification{Title: "Error Loading Articles", Description: msg, Destructive: true})
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// LoadMoreArticles дозагружает следующую страницу и дописывает её в конец ленты.
// Пока идёт загрузка или страниц больше нет, это no-op: (nil, nil), запрос не выполняется.
func (s *ArticleStore) LoadMoreArticles(ctx context.Context) (*models.ArticleList, error) {
	const op = "store/articles/LoadMoreArticles"

	var (
		gen  uint64
		q    models.ArticleQuery
		skip bool
	)
	s.c.apply(func(st *ArticleState) bool {
		if st.Loading || !st.HasMore {
			skip = true
			return false
		}

		s.gen++
		gen = s.gen
		q = models.ArticleQuery{Page: st.Page + 1, PageSize: st.PageSize, Filters: st.Filters}

		st.Loading = true
		st.Error = ""
		return true
	})
	if skip {
		return nil, nil
	}

	resp, err := s.svc.Articles(ctx, q)

	var msg string
	applied := s.c.apply(func(st *ArticleState) bool {
		if s.gen != gen {
			return false
		}

		st.Loading = false

		switch {
		case errors.Is(err, service.ErrNoToken), err == nil && resp == nil:
			st.HasMore = false
		case err != nil:
			msg = userMessage(err, "Failed to load more articles")
			st.Error = msg
		default:
			st.Articles = append(st.Articles, resp.Data...)
			st.Page = q.Page
			st.HasMore = resp.Meta.Pagination.HasMore()
			st.Error = ""
		}

		return true
	})
	if !applied {
		log.From(ctx).Debug("articles_response_discarded", slog.String("op", op), slog.Int("page", q.Page))
		return nil, fmt.Errorf("%s: %w", op, ErrSuperseded)
	}

	if msg != "" {
		s.notifier.Notify(ctx, Notification{Title: "Error", Description: msg, Destructive: true})
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// SetFilters заменяет фильтры и перезагружает ленту с первой страницы.
func (s *ArticleStore) SetFilters(ctx context.Context, filters models.ArticleFilters) (*models.ArticleList, error) {
	s.c.update(func(st *ArticleState) {
		st.Filters = filters
	})

	return s.FetchArticles(ctx, 0, &filters)
}

// CreateArticle создаёт статью и перезагружает первую страницу ленты.
func (s *ArticleStore) CreateArticle(ctx context.Context, in models.ArticleInput) (*models.Article, error) {
	const op = "store/articles/CreateArticle"

	a, err := s.svc.CreateArticle(ctx, in)
	if err != nil {
		s.fail(ctx, err, "Failed to create article")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Notify(ctx, Notification{Title: "Article Created", Description: "Your article has been published"})

	if _, err := s.FetchArticles(ctx, 0, nil); err != nil && !errors.Is(err, ErrSuperseded) {
		log.From(ctx).Warn("articles_refetch_failed", slog.String("op", op), slog.String("err", err.Error()))
	}

	return a, nil
}

// UpdateArticle обновляет статью и сливает вернувшиеся поля в локальную запись
// с тем же documentId. Остальные статьи не трогаются, лента не перезагружается.
func (s *ArticleStore) UpdateArticle(ctx context.Context, documentID string, in models.ArticleInput) (*models.Article, error) {
	const op = "store/articles/UpdateArticle"

	updated, err := s.svc.UpdateArticle(ctx, documentID, in)
	if err != nil {
		s.fail(ctx, err, "Failed to update article")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.c.update(func(st *ArticleState) {
		for i := range st.Articles {
			if st.Articles[i].DocumentID == documentID {
				st.Articles[i] = st.Articles[i].Merge(*updated)
			}
		}
		st.Error = ""
	})

	s.notifier.Notify(ctx, Notification{Title: "Article Updated", Description: "Your article has been updated successfully"})

	return updated, nil
}

// DeleteArticle удаляет статью на сервере и только после успеха убирает её из ленты.
// При ошибке локальная запись остаётся.
func (s *ArticleStore) DeleteArticle(ctx context.Context, documentID string) error {
	const op = "store/articles/DeleteArticle"

	if err := s.svc.DeleteArticle(ctx, documentID); err != nil {
		s.fail(ctx, err, "Failed to delete article")
		return fmt.Errorf("%s: %w", op, err)
	}

	s.c.update(func(st *ArticleState) {
		st.Articles = slices.DeleteFunc(st.Articles, func(a models.Article) bool {
			return a.DocumentID == documentID
		})
		st.Error = ""
	})

	s.notifier.Notify(ctx, Notification{Title: "Article Deleted", Description: "Your article has been deleted successfully"})

	return nil
}

// ResetArticles возвращает стор в исходное состояние; ответы начатых выборок отбрасываются.
func (s *ArticleStore) ResetArticles() {
	s.c.update(func(st *ArticleState) {
		s.gen++
		*st = initialArticleState(s.pageSize)
	})
}

func (s *ArticleStore) fail(ctx context.Context, err error, fallback string) {
	msg := userMessage(err, fallback)

	s.c.update(func(st *ArticleState) {
		st.Error = msg
	})

	s.notifier.Notify(ctx, Notification{Title: "Error", Description: msg, Destructive: true})
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}

	return v
}
