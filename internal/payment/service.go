package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"shopviet-be/internal/logger"
	"shopviet-be/internal/order"
	"shopviet-be/internal/vnpay"

	"go.uber.org/zap"
)

// Gateway is the vnpay client surface the service depends on.
type Gateway interface {
	BuildPaymentURL(req vnpay.PaymentRequest) (string, error)
	VerifyCallback(params url.Values) bool
	ParseCallback(params url.Values) (*vnpay.CallbackResult, error)
}

// OrderStore is the slice of the order layer reconciliation touches.
type OrderStore interface {
	GetByID(ctx context.Context, id uint) (*order.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error)
	UpdatePaymentInfo(ctx context.Context, id uint, update order.PaymentUpdate) error
}

// OrderConfirmer drives the order lifecycle after a successful
// payment.
type OrderConfirmer interface {
	Confirm(ctx context.Context, orderID uint) error
}

// Notifier pushes the in-app payment receipt. Optional; a nil notifier
// disables it.
type Notifier interface {
	PaymentReceived(ctx context.Context, o *order.Order) error
}

type Service interface {
	Create(ctx context.Context, userID uint, input CreateInput, clientIP string) (*CreateResult, error)
	// Reconcile processes a signed gateway callback. It is safe to call
	// from both the return URL and the IPN endpoint; a replay against a
	// paid order is rejected without writes.
	Reconcile(ctx context.Context, params url.Values) (*ReconcileResult, error)
	Status(ctx context.Context, orderID uint, actorID uint, isAdmin bool) (*StatusView, error)
	MarkRefunded(ctx context.Context, orderID uint) (*StatusView, error)
}

type service struct {
	gateway   Gateway
	orders    OrderStore
	confirmer OrderConfirmer
	notifier  Notifier
}

func NewService(gateway Gateway, orders OrderStore, confirmer OrderConfirmer, notifier Notifier) Service {
	return &service{gateway: gateway, orders: orders, confirmer: confirmer, notifier: notifier}
}

func (s *service) Create(ctx context.Context, userID uint, input CreateInput, clientIP string) (*CreateResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreatePayment"),
		zap.Uint("order_id", input.OrderID),
	)

	o, err := s.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, order.ErrNotOrderOwner
	}
	if o.Status == order.StatusCancelled {
		return nil, ErrOrderCancelled
	}
	if o.PaymentStatus == order.PaymentPaid || o.PaymentStatus == order.PaymentRefunded {
		return nil, ErrAlreadyPaid
	}

	paymentURL, err := s.gateway.BuildPaymentURL(vnpay.PaymentRequest{
		OrderRef:  o.OrderNumber,
		Amount:    o.Total,
		OrderInfo: fmt.Sprintf("Thanh toan don hang %s", o.OrderNumber),
		ClientIP:  clientIP,
		BankCode:  input.BankCode,
	})
	if err != nil {
		log.Error("failed to build payment url", zap.Error(err))
		return nil, err
	}

	method := MethodVNPay
	if err := s.orders.UpdatePaymentInfo(ctx, o.ID, order.PaymentUpdate{
		PaymentStatus: o.PaymentStatus,
		Method:        &method,
	}); err != nil {
		return nil, err
	}

	log.Info("payment url issued", zap.String("order_number", o.OrderNumber))
	return &CreateResult{
		OrderNumber: o.OrderNumber,
		Amount:      o.Total,
		PaymentURL:  paymentURL,
	}, nil
}

func (s *service) Reconcile(ctx context.Context, params url.Values) (*ReconcileResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ReconcilePayment"),
	)

	if !s.gateway.VerifyCallback(params) {
		log.Warn("callback signature mismatch",
			zap.String("txn_ref", params.Get("vnp_TxnRef")))
		return nil, ErrBadSignature
	}

	cb, err := s.gateway.ParseCallback(params)
	if err != nil {
		return nil, err
	}

	o, err := s.orders.GetByOrderNumber(ctx, cb.OrderRef)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == order.PaymentPaid || o.PaymentStatus == order.PaymentRefunded {
		log.Warn("replayed callback for settled order",
			zap.String("order_number", o.OrderNumber))
		return nil, ErrReplayedCallback
	}

	success := vnpay.IsSuccess(cb.ResponseCode)
	update := order.PaymentUpdate{
		PaymentStatus: order.PaymentFailed,
		RawResponse:   encodePayload(params),
	}
	if success {
		update.PaymentStatus = order.PaymentPaid
		update.PaidAt = cb.PayDate
	}
	if cb.TransactionNo != "" {
		update.TransactionNo = &cb.TransactionNo
	}

	if err := s.orders.UpdatePaymentInfo(ctx, o.ID, update); err != nil {
		log.Error("failed to persist payment result", zap.Error(err))
		return nil, err
	}

	if success {
		if err := s.confirmer.Confirm(ctx, o.ID); err != nil {
			// The money is recorded; confirmation can be retried by an
			// admin, so surface the error in logs only.
			log.Error("failed to confirm paid order", zap.Error(err))
		}
		if s.notifier != nil {
			if err := s.notifier.PaymentReceived(ctx, o); err != nil {
				log.Warn("failed to enqueue payment notification", zap.Error(err))
			}
		}
	}

	log.Info("payment reconciled",
		zap.String("order_number", o.OrderNumber),
		zap.String("response_code", cb.ResponseCode),
		zap.Bool("success", success))

	return &ReconcileResult{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Success:       success,
		ResponseCode:  cb.ResponseCode,
		Message:       vnpay.ResponseMessage(cb.ResponseCode),
		Amount:        cb.Amount,
		TransactionNo: cb.TransactionNo,
		PayDate:       cb.PayDate,
	}, nil
}

func (s *service) Status(ctx context.Context, orderID uint, actorID uint, isAdmin bool) (*StatusView, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != actorID {
		return nil, order.ErrNotOrderOwner
	}
	return statusView(o), nil
}

func (s *service) MarkRefunded(ctx context.Context, orderID uint) (*StatusView, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MarkRefunded"),
		zap.Uint("order_id", orderID),
	)

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus != order.PaymentPaid {
		return nil, ErrNotPaid
	}

	if err := s.orders.UpdatePaymentInfo(ctx, o.ID, order.PaymentUpdate{
		PaymentStatus: order.PaymentRefunded,
	}); err != nil {
		return nil, err
	}

	o.PaymentStatus = order.PaymentRefunded
	log.Info("payment marked refunded", zap.String("order_number", o.OrderNumber))
	return statusView(o), nil
}

func statusView(o *order.Order) *StatusView {
	return &StatusView{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: o.PaymentMethod,
		TransactionNo: o.TransactionNo,
		PaidAt:        o.PaidAt,
	}
}

// encodePayload stores the callback parameters verbatim for audits.
func encodePayload(params url.Values) json.RawMessage {
	flat := make(map[string]string, len(params))
	for k := range params {
		flat[k] = params.Get(k)
	}
	raw, err := json.Marshal(flat)
	if err != nil {
		return nil
	}
	return raw
}
