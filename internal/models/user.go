package models

import "time"

type User struct {
	ID        ID        `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	Confirmed bool      `json:"confirmed"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse — ответ login/register и одновременно сохраняемая сессия.
type AuthResponse struct {
	JWT  string `json:"jwt"`
	User User   `json:"user"`
}

type LoginCredentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type RegisterCredentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
