package models

import "time"

// Article — статья блога.
// Важно:
//   - ID уникален в пределах страницы выдачи;
//   - DocumentID — стабильный внешний идентификатор, обязателен для update/delete;
//   - Category/User/Comments приходят только при populate=*.
type Article struct {
	ID            ID        `json:"id"`
	DocumentID    string    `json:"documentId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CoverImageURL *string   `json:"cover_image_url"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	PublishedAt   time.Time `json:"publishedAt"`
	Locale        *string   `json:"locale"`
	Category      *Category `json:"category,omitempty"`
	User          *User     `json:"user,omitempty"`
	Comments      []Comment `json:"comments,omitempty"`
}

// Merge — поверхностное слияние: непустые поля patch перекрывают поля a.
// Используется, когда API вернул частичное представление после update.
func (a Article) Merge(patch Article) Article {
	out := a

	if patch.ID != 0 {
		out.ID = patch.ID
	}
	if patch.DocumentID != "" {
		out.DocumentID = patch.DocumentID
	}
	if patch.Title != "" {
		out.Title = patch.Title
	}
	if patch.Description != "" {
		out.Description = patch.Description
	}
	if patch.CoverImageURL != nil {
		out.CoverImageURL = patch.CoverImageURL
	}
	if !patch.CreatedAt.IsZero() {
		out.CreatedAt = patch.CreatedAt
	}
	if !patch.UpdatedAt.IsZero() {
		out.UpdatedAt = patch.UpdatedAt
	}
	if !patch.PublishedAt.IsZero() {
		out.PublishedAt = patch.PublishedAt
	}
	if patch.Locale != nil {
		out.Locale = patch.Locale
	}
	if patch.Category != nil {
		out.Category = patch.Category
	}
	if patch.User != nil {
		out.User = patch.User
	}
	if patch.Comments != nil {
		out.Comments = patch.Comments
	}

	return out
}

// ArticleInput — тело создания/частичного обновления статьи.
// При update уходят только заданные поля.
type ArticleInput struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
	Category      *ID     `json:"category,omitempty"`
}

// ArticleQuery — параметры выборки списка статей.
type ArticleQuery struct {
	Page     int
	PageSize int
	Filters  ArticleFilters
}
