package validation

import (
	"strings"

	"github.com/pribylovaa/travel-blog/internal/models"
)

type LoginForm struct {
	Identifier string `json:"identifier" validate:"required,min=3"`
	Password   string `json:"password" validate:"required,min=8,password"`
}

func (f LoginForm) Credentials() models.LoginCredentials {
	return models.LoginCredentials{Identifier: strings.TrimSpace(f.Identifier), Password: f.Password}
}

type RegisterForm struct {
	Username        string `json:"username" validate:"required,min=3,max=20,username"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (f RegisterForm) Credentials() models.RegisterCredentials {
	return models.RegisterCredentials{
		Username: strings.TrimSpace(f.Username),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}

// FilterForm — форма фильтров ленты. Пустой sortBy означает latest.
type FilterForm struct {
	SearchTerm string `json:"searchTerm" validate:"max=100"`
	Category   string `json:"category"`
	SortBy     string `json:"sortBy" validate:"omitempty,oneof=latest oldest title_asc title_desc"`
}

// Normalize обрезает пробелы и подставляет сортировку по умолчанию.
func (f FilterForm) Normalize() FilterForm {
	f.SearchTerm = strings.TrimSpace(f.SearchTerm)
	f.Category = strings.TrimSpace(f.Category)
	f.SortBy = strings.TrimSpace(f.SortBy)
	if f.SortBy == "" {
		f.SortBy = string(models.SortLatest)
	}

	return f
}

func (f FilterForm) Filters() models.ArticleFilters {
	return models.ArticleFilters{
		SearchTerm:   f.SearchTerm,
		CategoryName: f.Category,
		SortBy:       models.SortBy(f.SortBy),
	}
}

type ArticleForm struct {
	Title         string     `json:"title" validate:"required,min=3,max=200"`
	Description   string     `json:"description" validate:"required,max=5000"`
	CoverImageURL string     `json:"cover_image_url" validate:"omitempty,url"`
	CategoryID    *models.ID `json:"category"`
}

func (f ArticleForm) Input() models.ArticleInput {
	title := strings.TrimSpace(f.Title)
	description := strings.TrimSpace(f.Description)

	in := models.ArticleInput{Title: &title, Description: &description, Category: f.CategoryID}
	if u := strings.TrimSpace(f.CoverImageURL); u != "" {
		in.CoverImageURL = &u
	}

	return in
}

type CategoryForm struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (f CategoryForm) Input() models.CategoryInput {
	in := models.CategoryInput{Name: strings.TrimSpace(f.Name)}
	if d := strings.TrimSpace(f.Description); d != "" {
		in.Description = &d
	}

	return in
}

type CommentForm struct {
	Content string `json:"content" validate:"required,max=1000"`
}
