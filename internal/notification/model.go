package notification

import (
	"errors"
	"time"
)

type Type string

const (
	TypeOrder   Type = "order"
	TypePayment Type = "payment"
	TypeReview  Type = "review"
	TypeSystem  Type = "system"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("notification belongs to another user")
)

// Notification rows with a nil UserID are admin broadcasts visible to
// every admin account.
type Notification struct {
	ID        uint      `json:"id"`
	UserID    *uint     `json:"user_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
