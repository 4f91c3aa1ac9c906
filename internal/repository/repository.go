// Package repository описывает доступ к ресурсам контент-API.
//
// Репозитории не хранят состояния: одна доменная операция = один HTTP-вызов.
// Ошибки мутаций и точечных чтений возвращаются категоризированными (*apperrors.AppError);
// списочные чтения статей деградируют до пустой страницы.
package repository

import (
	"context"
	"errors"

	"github.com/pribylovaa/travel-blog/internal/models"
)

var (
	// ErrInvalidArgument — нарушены ограничения запроса (пустой файл, превышен размер).
	ErrInvalidArgument = errors.New("invalid argument")
)

// Articles — статьи.
type Articles interface {
	// ListArticles возвращает страницу статей с учётом фильтров.
	// При любой ошибке API возвращает models.EmptyList(q.PageSize) и nil.
	ListArticles(ctx context.Context, token string, q models.ArticleQuery) (*models.ArticleList, error)

	// ArticleByTitle ищет статьи по точному (без учёта регистра) заголовку, с вложенными
	// категорией, автором и комментариями.
	ArticleByTitle(ctx context.Context, token, title string) (*models.ArticleList, error)

	CreateArticle(ctx context.Context, token string, in models.ArticleInput) (*models.Article, error)

	// UpdateArticle — частичное обновление: уходят только заданные поля in.
	UpdateArticle(ctx context.Context, token, documentID string, in models.ArticleInput) (*models.Article, error)

	DeleteArticle(ctx context.Context, token, documentID string) error
}

// Categories — категории.
type Categories interface {
	ListCategories(ctx context.Context, token string) (*models.CategoryList, error)
	CreateCategory(ctx context.Context, token string, in models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, token, documentID string, in models.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, token, documentID string) error
}

// Comments — комментарии к статьям.
type Comments interface {
	// ListComments — комментарии статьи, сначала новые.
	ListComments(ctx context.Context, token string, articleID models.ID) (*models.CommentList, error)
	CreateComment(ctx context.Context, token, content string, articleID models.ID) (*models.Comment, error)
	UpdateComment(ctx context.Context, token, documentID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, token, documentID string) error
}

// Auth — аутентификация пользователей.
type Auth interface {
	Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error)
	Register(ctx context.Context, creds models.RegisterCredentials) (*models.AuthResponse, error)
	// Me — профиль владельца токена.
	Me(ctx context.Context, token string) (*models.User, error)
}

// Uploads — загрузка файлов.
type Uploads interface {
	// Upload загружает файл и возвращает описание загруженных объектов.
	// Reader файла читается один раз.
	Upload(ctx context.Context, token string, f models.File) ([]models.UploadedFile, error)
}

// Repositories — набор репозиториев для внедрения в сервисный слой.
type Repositories struct {
	Articles   Articles
	Categories Categories
	Comments   Comments
	Auth       Auth
	Uploads    Uploads
}
