package mailer

import (
	"context"
	"fmt"

	"shopviet-be/internal/logger"
	"shopviet-be/internal/notification"
	"shopviet-be/internal/order"
	"shopviet-be/internal/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Producer enqueues email and notification tasks. It satisfies
// order.Notifier; callers treat failures as best-effort.
type Producer struct {
	client *asynq.Client
}

func NewProducer(client *asynq.Client) *Producer {
	return &Producer{client: client}
}

func (p *Producer) OrderConfirmation(ctx context.Context, o *order.Order) error {
	task, err := NewOrderConfirmationTask(orderPayload(o, ""))
	if err != nil {
		return err
	}
	if err := p.enqueue(ctx, task); err != nil {
		return err
	}

	// Mirror the email with an in-app notification row for the buyer
	// and a broadcast for the admin dashboard.
	userID := o.UserID
	p.notify(ctx, &userID, notification.TypeOrder,
		"Đặt hàng thành công",
		fmt.Sprintf("Đơn hàng %s đã được tạo.", o.OrderNumber))
	p.notify(ctx, nil, notification.TypeOrder,
		"Đơn hàng mới",
		fmt.Sprintf("Đơn hàng %s vừa được đặt bởi %s.", o.OrderNumber, o.CustomerName))
	return nil
}

func (p *Producer) OrderStatusChanged(ctx context.Context, o *order.Order, previous order.Status) error {
	task, err := NewOrderStatusTask(orderPayload(o, previous))
	if err != nil {
		return err
	}
	if err := p.enqueue(ctx, task); err != nil {
		return err
	}

	userID := o.UserID
	p.notify(ctx, &userID, notification.TypeOrder,
		"Cập nhật đơn hàng",
		fmt.Sprintf("Đơn hàng %s chuyển sang trạng thái %s.", o.OrderNumber, o.Status))
	return nil
}

// PaymentReceived records a successful gateway settlement in-app.
func (p *Producer) PaymentReceived(ctx context.Context, o *order.Order) error {
	userID := o.UserID
	p.notify(ctx, &userID, notification.TypePayment,
		"Thanh toán thành công",
		fmt.Sprintf("Đơn hàng %s đã được thanh toán.", o.OrderNumber))
	return nil
}

func (p *Producer) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := p.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	logger.FromCtx(ctx).Debug("task enqueued",
		zap.String("task_id", info.ID),
		zap.String("type", task.Type()))
	return nil
}

func (p *Producer) notify(ctx context.Context, userID *uint, typ notification.Type, title, message string) {
	task, err := NewNotificationTask(NotificationPayload{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    string(typ),
	})
	if err == nil {
		err = p.enqueue(ctx, task)
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to enqueue notification", zap.Error(err))
	}
}

func orderPayload(o *order.Order, previous order.Status) OrderEmailPayload {
	return OrderEmailPayload{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		Total:          o.Total.String(),
		PaymentMethod:  utils.PtrString(o.PaymentMethod),
		Status:         string(o.Status),
		PreviousStatus: string(previous),
		CreatedAt:      o.CreatedAt,
	}
}
