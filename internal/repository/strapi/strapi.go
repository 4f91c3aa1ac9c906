// Package strapi — реализация репозиториев поверх REST API Strapi.
package strapi

import (
	"fmt"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/apperrors"
	"github.com/pribylovaa/travel-blog/internal/repository"
)

// Limits — размеры выборок и ограничения загрузки.
type Limits struct {
	ArticlesPageSize   int
	CategoriesPageSize int
	CommentsPageSize   int
	UploadMaxBytes     int64
}

// Repository реализует все интерфейсы пакета repository.
type Repository struct {
	client *apiclient.Client
	limits Limits
}

var (
	_ repository.Articles   = (*Repository)(nil)
	_ repository.Categories = (*Repository)(nil)
	_ repository.Comments   = (*Repository)(nil)
	_ repository.Auth       = (*Repository)(nil)
	_ repository.Uploads    = (*Repository)(nil)
)

func New(client *apiclient.Client, limits Limits) *Repository {
	if limits.ArticlesPageSize <= 0 {
		limits.ArticlesPageSize = 6
	}
	if limits.CategoriesPageSize <= 0 {
		limits.CategoriesPageSize = 100
	}
	if limits.CommentsPageSize <= 0 {
		limits.CommentsPageSize = 100
	}

	return &Repository{client: client, limits: limits}
}

// Repositories — все репозитории на одном клиенте.
func (r *Repository) Repositories() repository.Repositories {
	return repository.Repositories{
		Articles:   r,
		Categories: r,
		Comments:   r,
		Auth:       r,
		Uploads:    r,
	}
}

// dataBody — конверт тела мутаций {"data": ...}.
type dataBody[T any] struct {
	Data T `json:"data"`
}

func fail(op string, err error) error {
	return fmt.Errorf("%s: %w", op, apperrors.Categorize(err))
}

func requireDocumentID(op, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%s: documentId is required: %w", op, repository.ErrInvalidArgument)
	}

	return nil
}
