package validation

import (
	"strings"
	"testing"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/stretchr/testify/require"
)

// Тесты для internal/validation: сообщения по полям для каждой формы,
// кастомные правила username/password, нормализация фильтров и конверсия в модели.

func TestValidate_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		form LoginForm
		want FieldErrors
	}{
		{name: "ok", form: LoginForm{Identifier: "alice", Password: "Secret1!"}},
		{
			name: "empty",
			form: LoginForm{},
			want: FieldErrors{"identifier": "Email or username is required", "password": "Password is required"},
		},
		{
			name: "short",
			form: LoginForm{Identifier: "al", Password: "Se1!"},
			want: FieldErrors{
				"identifier": "Email or username must be at least 3 characters",
				"password":   "Password must be at least 8 characters",
			},
		},
		{
			name: "weak password",
			form: LoginForm{Identifier: "alice", Password: "secret123"},
			want: FieldErrors{"password": "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Validate(tt.form))
		})
	}
}

func TestValidate_Register(t *testing.T) {
	t.Parallel()

	ok := RegisterForm{Username: "bob_1", Email: "bob@mail.io", Password: "Secret1!", ConfirmPassword: "Secret1!"}
	require.Nil(t, Validate(ok))

	bad := RegisterForm{Username: "bob smith", Email: "nope", Password: "Secret1!", ConfirmPassword: "Secret2!"}
	require.Equal(t, FieldErrors{
		"username":        "Username can only contain letters, numbers, underscores and hyphens",
		"email":           "Email must be a valid email address",
		"confirmPassword": "Passwords must match",
	}, Validate(bad))

	long := ok
	long.Username = strings.Repeat("a", 21)
	require.Equal(t, "Username must be less than 20 characters", Validate(long)["username"])
}

func TestStrongPassword(t *testing.T) {
	t.Parallel()

	require.True(t, strongPassword("Secret1!"))
	require.True(t, strongPassword("aB3$xxxx"))
	require.False(t, strongPassword("secret1!"))
	require.False(t, strongPassword("SECRET1!"))
	require.False(t, strongPassword("Secret!!"))
	require.False(t, strongPassword("Secret11"))
	require.False(t, strongPassword(" Secret1!"))
	require.False(t, strongPassword(""))
}

func TestFilterForm(t *testing.T) {
	t.Parallel()

	f := FilterForm{SearchTerm: "  sea ", Category: " Beach "}.Normalize()
	require.Nil(t, Validate(f))
	require.Equal(t, models.ArticleFilters{SearchTerm: "sea", CategoryName: "Beach", SortBy: models.SortLatest}, f.Filters())

	require.Equal(t, FieldErrors{"sortBy": "Invalid sort option"}, Validate(FilterForm{SortBy: "random"}))
	require.Equal(t,
		FieldErrors{"searchTerm": "Search term must be less than 100 characters"},
		Validate(FilterForm{SearchTerm: strings.Repeat("x", 101)}),
	)
}

func TestContentForms(t *testing.T) {
	t.Parallel()

	cat := models.ID(3)
	af := ArticleForm{Title: " Road trip ", Description: "Five days", CategoryID: &cat}
	require.Nil(t, Validate(af))

	in := af.Input()
	require.Equal(t, "Road trip", *in.Title)
	require.Nil(t, in.CoverImageURL)
	require.Equal(t, &cat, in.Category)

	require.Equal(t, "Cover image URL must be a valid URL",
		Validate(ArticleForm{Title: "Trip", Description: "x", CoverImageURL: "not a url"})["cover_image_url"])

	require.Equal(t, FieldErrors{"name": "Name is required"}, Validate(CategoryForm{}))
	require.Equal(t, models.CategoryInput{Name: "Beach"}, CategoryForm{Name: " Beach "}.Input())

	require.Equal(t, FieldErrors{"content": "Comment is required"}, Validate(CommentForm{}))
}

func TestFieldErrors_Error(t *testing.T) {
	t.Parallel()

	err := FieldErrors{"b": "second", "a": "first"}
	require.EqualError(t, err, "validation failed: a: first; b: second")
}
