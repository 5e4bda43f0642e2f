package category

import (
	"errors"
	"time"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateSlug    = errors.New("category slug already exists")
	ErrCategoryInUse    = errors.New("category still has products")
)

type Category struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	ParentID    *uint     `json:"parent_id,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateInput struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ParentID    *uint   `json:"parent_id"`
	ImageURL    *string `json:"image_url"`
}

type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ParentID    *uint   `json:"parent_id"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}
