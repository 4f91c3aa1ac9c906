package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// Categories — все категории. Ошибка API превращается в пустой список.
func (s *Service) Categories(ctx context.Context) (*models.CategoryList, error) {
	const op = "service/categories/Categories"

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	list, err := s.repos.Categories.ListCategories(ctx, tok)
	if err != nil {
		log.From(ctx).Error("get_categories_failed", slog.String("op", op), slog.String("err", err.Error()))
		return models.EmptyList[models.Category](categoriesPageSize), nil
	}

	return list, nil
}

// CreateCategory — имя нормализуется (TrimSpace) и не должно быть пустым.
func (s *Service) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	const op = "service/categories/CreateCategory"

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%s: empty name: %w", op, ErrInvalidArgument)
	}

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	c, err := s.repos.Categories.CreateCategory(ctx, tok, in)
	if err != nil {
		return nil, writeFailed(ctx, op, "create_category_failed", err)
	}

	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, documentID string, in models.CategoryInput) (*models.Category, error) {
	const op = "service/categories/UpdateCategory"

	if err := requireDocumentID(op, documentID); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%s: empty name: %w", op, ErrInvalidArgument)
	}

	tok, err := s.token(ctx, op)
	if err != nil {
		return nil, err
	}

	c, err := s.repos.Categories.UpdateCategory(ctx, tok, documentID, in)
	if err != nil {
		return nil, writeFailed(ctx, op, "update_category_failed", err)
	}

	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, documentID string) error {
	const op = "service/categories/DeleteCategory"

	if err := requireDocumentID(op, documentID); err != nil {
		return err
	}

	tok, err := s.token(ctx, op)
	if err != nil {
		return err
	}

	if err := s.repos.Categories.DeleteCategory(ctx, tok, documentID); err != nil {
		return writeFailed(ctx, op, "delete_category_failed", err)
	}

	return nil
}
