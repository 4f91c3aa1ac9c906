package models

import "time"

// Comment — комментарий к статье.
// Связь со статьёй задаётся при создании и обратно в модель не приходит.
type Comment struct {
	ID          ID        `json:"id"`
	DocumentID  string    `json:"documentId"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	PublishedAt time.Time `json:"publishedAt"`
	Locale      *string   `json:"locale"`
}
