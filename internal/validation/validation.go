// Package validation — правила форм клиента (вход, регистрация, фильтры, статьи,
// категории, комментарии) на go-playground/validator.
//
// Ошибки возвращаются как FieldErrors: имя поля в JSON -> сообщение для пользователя.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	validate = newValidator()
)

const passwordSpecials = "@$!%*?&"

// FieldErrors — ошибки валидации по полям формы.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// labels — подписи полей в сообщениях.
var labels = map[string]string{
	"identifier":      "Email or username",
	"username":        "Username",
	"email":           "Email",
	"password":        "Password",
	"confirmPassword": "Password confirmation",
	"searchTerm":      "Search term",
	"sortBy":          "Sort option",
	"title":           "Title",
	"description":     "Description",
	"cover_image_url": "Cover image URL",
	"name":            "Name",
	"content":         "Comment",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}

		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})

	return v
}

// strongPassword — строчная и заглавная буквы, цифра и спецсимвол из @$!%*?&;
// первый символ — буква, цифра или такой спецсимвол.
func strongPassword(s string) bool {
	if s == "" {
		return false
	}

	first := rune(s[0])
	if !isASCIILetterOrDigit(first) && !strings.ContainsRune(passwordSpecials, first) {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}

	return lower && upper && digit && special
}

func isASCIILetterOrDigit(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Validate проверяет форму. nil — форма валидна.
// Ошибка, не связанная с полями (например, передан не struct), возвращается в поле "form".
func Validate(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": "Validation failed"}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}

	return out
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		if fe.Field() == "password" {
			return "Password must be at least 8 characters"
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
	case "email":
		return "Email must be a valid email address"
	case "username":
		return "Username can only contain letters, numbers, underscores and hyphens"
	case "password":
		return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	case "eqfield":
		return "Passwords must match"
	case "oneof":
		return "Invalid sort option"
	case "url":
		return label + " must be a valid URL"
	}

	return label + " is invalid"
}
