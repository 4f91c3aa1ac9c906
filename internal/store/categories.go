package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/pribylovaa/travel-blog/internal/models"
)

// CategoryService — операции над категориями, нужные стору.
type CategoryService interface {
	Categories(ctx context.Context) (*models.CategoryList, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, documentID string, in models.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, documentID string) error
}

type CategoryState struct {
	Categories []models.Category
	Loading    bool
	Error      string
}

func (s CategoryState) clone() CategoryState {
	s.Categories = slices.Clone(s.Categories)
	return s
}

// CategoryStore — список категорий. Успех операции определяется отсутствием ошибки сервиса.
type CategoryStore struct {
	svc CategoryService
	c   *container[CategoryState]
}

func NewCategoryStore(svc CategoryService) *CategoryStore {
	return &CategoryStore{svc: svc, c: newContainer(CategoryState{Categories: []models.Category{}})}
}

func (s *CategoryStore) State() CategoryState { return s.c.snapshot() }

func (s *CategoryStore) Subscribe(fn func(CategoryState)) (unsubscribe func()) {
	return s.c.subscribe(fn)
}

// FetchCategories заменяет список целиком.
func (s *CategoryStore) FetchCategories(ctx context.Context) error {
	const op = "store/categories/FetchCategories"

	s.begin()

	resp, err := s.svc.Categories(ctx)
	if err != nil || resp == nil {
		s.fail(err, "Failed to fetch categories")
		if err == nil {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.c.update(func(st *CategoryState) {
		st.Categories = nonNil(resp.Data)
		st.Loading = false
	})

	return nil
}

// CreateCategory добавляет созданную категорию в конец списка.
func (s *CategoryStore) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	const op = "store/categories/CreateCategory"

	s.begin()

	c, err := s.svc.CreateCategory(ctx, in)
	if err != nil {
		s.fail(err, "Failed to create category")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.c.update(func(st *CategoryState) {
		st.Categories = append(st.Categories, *c)
		st.Loading = false
	})

	return c, nil
}

// UpdateCategory заменяет категорию с тем же documentId на месте.
func (s *CategoryStore) UpdateCategory(ctx context.Context, documentID string, in models.CategoryInput) (*models.Category, error) {
	const op = "store/categories/UpdateCategory"

	s.begin()

	c, err := s.svc.UpdateCategory(ctx, documentID, in)
	if err != nil {
		s.fail(err, "Failed to update category")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.c.update(func(st *CategoryState) {
		for i := range st.Categories {
			if st.Categories[i].DocumentID == documentID {
				st.Categories[i] = *c
			}
		}
		st.Loading = false
	})

	return c, nil
}

func (s *CategoryStore) DeleteCategory(ctx context.Context, documentID string) error {
	const op = "store/categories/DeleteCategory"

	s.begin()

	if err := s.svc.DeleteCategory(ctx, documentID); err != nil {
		s.fail(err, "Failed to delete category")
		return fmt.Errorf("%s: %w", op, err)
	}

	s.c.update(func(st *CategoryState) {
		st.Categories = slices.DeleteFunc(st.Categories, func(c models.Category) bool {
			return c.DocumentID == documentID
		})
		st.Loading = false
	})

	return nil
}

func (s *CategoryStore) begin() {
	s.c.update(func(st *CategoryState) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *CategoryStore) fail(err error, fallback string) {
	msg := userMessage(err, fallback)

	s.c.update(func(st *CategoryState) {
		st.Loading = false
		st.Error = msg
	})
}
