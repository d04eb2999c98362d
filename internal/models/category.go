package models

import "time"

// Category groups templates. Names are unique case-insensitively. Categories
// are hard-deleted; there is no archive state.
type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
