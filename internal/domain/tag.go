package domain

import "time"

// Tag is a short free-form label attached to posts.
// Names are not unique; two tags may share a name.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Category is a broader grouping for posts. Like tags, names are not unique.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Name length limits.
const (
	MaxCategoryNameLength = 100
	MaxTagNameLength      = 50
)
