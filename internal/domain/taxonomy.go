package domain

import "time"

// Category groups posts. Every post belongs to at least one.
type Category struct {
	ID          string    `json:"id" doc:"Category ID"`
	Name        string    `json:"name" doc:"Display name"`
	Slug        string    `json:"slug" doc:"URL-safe unique slug"`
	Description *string   `json:"description" doc:"Optional description"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// Tag is a free-form label attached to posts.
type Tag struct {
	ID        string    `json:"id" doc:"Tag ID"`
	Name      string    `json:"name" doc:"Display name"`
	Slug      string    `json:"slug" doc:"URL-safe unique slug"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}
