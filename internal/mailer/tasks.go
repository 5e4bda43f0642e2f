package mailer

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskOrderConfirmation  = "email:order_confirmation"
	TaskOrderStatus        = "email:order_status"
	TaskNotificationCreate = "notification:create"
)

// OrderEmailPayload is shared by both email task types.
type OrderEmailPayload struct {
	OrderID        uint       `json:"order_id"`
	OrderNumber    string     `json:"order_number"`
	CustomerName   string     `json:"customer_name"`
	CustomerEmail  string     `json:"customer_email"`
	Total          string     `json:"total"`
	PaymentMethod  string     `json:"payment_method,omitempty"`
	Status         string     `json:"status"`
	PreviousStatus string     `json:"previous_status,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type NotificationPayload struct {
	UserID  *uint  `json:"user_id,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewOrderConfirmationTask(p OrderEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmation, payload, asynq.MaxRetry(5)), nil
}

func NewOrderStatusTask(p OrderEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatus, payload, asynq.MaxRetry(5)), nil
}

func NewNotificationTask(p NotificationPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationCreate, payload, asynq.MaxRetry(3)), nil
}
