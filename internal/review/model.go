package review

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrAlreadyReviewed  = errors.New("product already reviewed by this user")
	ErrPurchaseRequired = errors.New("only buyers with a delivered order can review")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrAlreadyModerated = errors.New("review has already been moderated")
)

type Review struct {
	ID          uint      `json:"id"`
	ProductID   uint      `json:"product_id"`
	UserID      uint      `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
	Status      Status    `json:"status"`
	ProductName string    `json:"product_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateInput struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Rating    int     `json:"rating" binding:"required,min=1,max=5"`
	Comment   *string `json:"comment"`
}

type AdminListFilter struct {
	Status *Status
	Limit  int
	Page   int
}
