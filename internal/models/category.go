package models

import "time"

type Category struct {
	ID          ID        `json:"id"`
	DocumentID  string    `json:"documentId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	PublishedAt time.Time `json:"publishedAt"`
}

type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}
