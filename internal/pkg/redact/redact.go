package redact

import "strings"

// Email маскирует локальную часть адреса, оставляя первые две руны и домен.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	return prefix(parts[0]) + "@" + parts[1]
}

// Identifier — логин Strapi может быть e-mail или username.
func Identifier(s string) string {
	if strings.Contains(s, "@") {
		return Email(s)
	}

	return prefix(s)
}

// Token скрывает bearer-токен; пустой токен остаётся пустым, чтобы в логах было видно его отсутствие.
func Token(tok string) string {
	if tok == "" {
		return ""
	}

	return "[REDACTED_TOKEN]"
}

func Password() string { return "[REDACTED_PASSWORD]" }

func prefix(s string) string {
	r := []rune(s)
	if len(r) > 2 {
		return string(r[:2]) + "***"
	}

	return "***"
}
