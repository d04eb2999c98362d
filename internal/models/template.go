package models

import "time"

// Variable describes a placeholder a template body references.
type Variable struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Sample      string `json:"sample,omitempty"`
}

// Template is an email template. CategoryID is a nullable reference that is
// not enforced against the category list. Deletion is soft: DeletedAt set
// means archived and hidden from default listings.
type Template struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CategoryID *string    `json:"categoryId"`
	Body       string     `json:"body"`
	Variables  []Variable `json:"variables"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
}

// Active reports whether the template is visible in default listings.
func (t *Template) Active() bool {
	return t.DeletedAt == nil
}
