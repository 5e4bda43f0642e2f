package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"shopviet-be/internal/logger"
	"shopviet-be/internal/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Handler consumes the queue in cmd/worker. Email delivery failures
// are returned to asynq so the task retries with backoff.
type Handler struct {
	sender        Sender
	notifications notification.Service
}

func NewHandler(sender Sender, notifications notification.Service) *Handler {
	return &Handler{sender: sender, notifications: notifications}
}

func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskOrderConfirmation, h.HandleOrderConfirmation)
	mux.HandleFunc(TaskOrderStatus, h.HandleOrderStatus)
	mux.HandleFunc(TaskNotificationCreate, h.HandleNotificationCreate)
}

func (h *Handler) HandleOrderConfirmation(ctx context.Context, t *asynq.Task) error {
	var p OrderEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	subject, body := RenderOrderConfirmation(p)
	if err := h.sender.Send(p.CustomerEmail, subject, body); err != nil {
		logger.L().Warn("confirmation email delivery failed, will retry",
			zap.String("order_number", p.OrderNumber), zap.Error(err))
		return err
	}

	logger.L().Info("confirmation email sent", zap.String("order_number", p.OrderNumber))
	return nil
}

func (h *Handler) HandleOrderStatus(ctx context.Context, t *asynq.Task) error {
	var p OrderEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	subject, body := RenderOrderStatus(p)
	if err := h.sender.Send(p.CustomerEmail, subject, body); err != nil {
		return err
	}

	logger.L().Info("status email sent",
		zap.String("order_number", p.OrderNumber),
		zap.String("status", p.Status))
	return nil
}

func (h *Handler) HandleNotificationCreate(ctx context.Context, t *asynq.Task) error {
	var p NotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	_, err := h.notifications.Create(ctx, p.UserID, p.Title, p.Message, notification.Type(p.Type))
	return err
}
