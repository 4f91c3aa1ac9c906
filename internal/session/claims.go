package session

import (
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pribylovaa/travel-blog/internal/models"
)

// Claims — сведения из JWT, прочитанные без проверки подписи:
// секрет есть только у сервера, клиенту нужны лишь id пользователя и срок жизни.
type Claims struct {
	UserID    models.ID
	HasUserID bool
	ExpiresAt time.Time
}

// ParseClaims разбирает JWT; false — токен не является JWT.
func ParseClaims(token string) (Claims, bool) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, false
	}

	var c Claims

	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}

	switch v := mc["id"].(type) {
	case float64:
		if v == math.Trunc(v) {
			c.UserID, c.HasUserID = models.ID(v), true
		}
	case string:
		if id, err := models.ParseID(v); err == nil {
			c.UserID, c.HasUserID = id, true
		}
	}

	if !c.HasUserID {
		if sub, err := mc.GetSubject(); err == nil && sub != "" {
			if id, err := models.ParseID(sub); err == nil {
				c.UserID, c.HasUserID = id, true
			}
		}
	}

	return c, true
}

// Consistent — токен и пользователь принадлежат одной сессии.
// Непрозрачный токен (не JWT или без id) считается согласованным при наличии обоих значений.
func Consistent(token string, user *models.User) bool {
	if token == "" || user == nil {
		return false
	}

	c, ok := ParseClaims(token)
	if !ok || !c.HasUserID {
		return true
	}

	return c.UserID == user.ID
}
