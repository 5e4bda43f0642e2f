package order

import (
	"context"
	"errors"

	"shopviet-be/internal/logger"
	"shopviet-be/internal/product"
	"shopviet-be/internal/settings"
	"shopviet-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultFreeShippingThreshold = 500000
	defaultFlatShippingFee       = 30000

	orderNumberAttempts = 3
)

// ProductReader is the slice of the product repository checkout needs.
type ProductReader interface {
	GetByID(ctx context.Context, id uint) (*product.Product, error)
}

// SettingsReader resolves the shipping fee knobs from the settings
// snapshot.
type SettingsReader interface {
	Number(key string, fallback float64) float64
}

// Notifier enqueues post-checkout messages. Failures are logged by the
// caller and never abort the order.
type Notifier interface {
	OrderConfirmation(ctx context.Context, o *Order) error
	OrderStatusChanged(ctx context.Context, o *Order, previous Status) error
}

type Service interface {
	Create(ctx context.Context, userID uint, input CreateInput) (*Order, error)
	Get(ctx context.Context, id uint, actorID uint, isAdmin bool) (*Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListMine(ctx context.Context, userID uint, filter ListFilter) ([]*Order, int64, error)
	ListAdmin(ctx context.Context, filter AdminListFilter) ([]*Order, int64, error)
	UpdateStatus(ctx context.Context, id uint, to Status) (*Order, error)
	Cancel(ctx context.Context, id uint, actorID uint, isAdmin bool, reason string) (*Order, error)
	Confirm(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	Statistics(ctx context.Context) (*Statistics, error)
}

type service struct {
	repo     Repository
	products ProductReader
	settings SettingsReader
	notifier Notifier
}

func NewService(repo Repository, products ProductReader, st SettingsReader, notifier Notifier) Service {
	return &service{repo: repo, products: products, settings: st, notifier: notifier}
}

func (s *service) Create(ctx context.Context, userID uint, input CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Uint("user_id", userID),
	)

	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]*Item, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, in := range input.Items {
		if in.Quantity < 1 {
			return nil, ErrEmptyOrder
		}

		p, err := s.products.GetByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrProductNotFound) {
				return nil, ErrProductUnavailable
			}
			return nil, err
		}
		if !p.IsActive {
			return nil, ErrProductUnavailable
		}
		if p.StockQuantity < in.Quantity {
			return nil, ErrInsufficientStock
		}

		unitPrice := p.EffectivePrice()
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		var image *string
		if len(p.Images) > 0 {
			image = &p.Images[0].URL
		}
		items = append(items, &Item{
			ProductID:    p.ID,
			VariantID:    in.VariantID,
			ProductName:  p.Name,
			ProductImage: image,
			UnitPrice:    unitPrice,
			Quantity:     in.Quantity,
			Subtotal:     lineTotal,
		})
	}

	shippingFee := s.shippingFee(subtotal)
	discount := decimal.Zero
	total := subtotal.Add(shippingFee).Sub(discount)

	method := input.PaymentMethod
	if method == "" {
		method = "cod"
	}

	o := &Order{
		UserID:           userID,
		Status:           StatusPending,
		Subtotal:         subtotal,
		ShippingFee:      shippingFee,
		Discount:         discount,
		Total:            total,
		PaymentStatus:    PaymentUnpaid,
		PaymentMethod:    &method,
		CustomerName:     input.CustomerName,
		CustomerPhone:    input.CustomerPhone,
		CustomerEmail:    input.CustomerEmail,
		ShippingAddress:  input.ShippingAddress,
		ShippingCity:     input.ShippingCity,
		ShippingDistrict: input.ShippingDistrict,
		ShippingWard:     input.ShippingWard,
		Note:             input.Note,
		Items:            items,
	}

	var created *Order
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		o.OrderNumber = utils.GenerateOrderNumber()
		created, err = s.repo.CreateTx(ctx, o, &userID)
		if !errors.Is(err, ErrDuplicateOrderNumber) {
			break
		}
		log.Warn("order number collision, retrying", zap.String("order_number", o.OrderNumber))
	}
	if err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.OrderConfirmation(ctx, created); err != nil {
			log.Warn("failed to enqueue order confirmation", zap.Error(err))
		}
	}

	log.Info("order created",
		zap.String("order_number", created.OrderNumber),
		zap.String("total", created.Total.String()))
	return created, nil
}

func (s *service) shippingFee(subtotal decimal.Decimal) decimal.Decimal {
	threshold := decimal.NewFromFloat(
		s.settings.Number(settings.KeyFreeShippingThreshold, defaultFreeShippingThreshold))
	if subtotal.GreaterThanOrEqual(threshold) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(
		s.settings.Number(settings.KeyFlatShippingFee, defaultFlatShippingFee))
}

func (s *service) Get(ctx context.Context, id uint, actorID uint, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != actorID {
		return nil, ErrNotOrderOwner
	}
	return o, nil
}

func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetByOrderNumber(ctx, orderNumber)
}

func (s *service) ListMine(ctx context.Context, userID uint, filter ListFilter) ([]*Order, int64, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

func (s *service) ListAdmin(ctx context.Context, filter AdminListFilter) ([]*Order, int64, error) {
	return s.repo.ListAdmin(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id uint, to Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.Uint("order_id", id),
		zap.String("to", string(to)),
	)

	if !ValidStatus(to) {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(o.Status, to); err != nil {
		return nil, err
	}

	restoreStock := to == StatusCancelled
	if err := s.repo.UpdateStatus(ctx, id, to, nil, restoreStock); err != nil {
		log.Error("failed to update status", zap.Error(err))
		return nil, err
	}

	previous := o.Status
	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.OrderStatusChanged(ctx, updated, previous); err != nil {
			log.Warn("failed to enqueue status email", zap.Error(err))
		}
	}

	log.Info("order status updated", zap.String("from", string(previous)))
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, id uint, actorID uint, isAdmin bool, reason string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CancelOrder"),
		zap.Uint("order_id", id),
	)

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != actorID {
		return nil, ErrNotOrderOwner
	}
	if o.Status != StatusPending && o.Status != StatusConfirmed {
		return nil, ErrCannotCancel
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled, reasonPtr, true); err != nil {
		log.Error("failed to cancel order", zap.Error(err))
		return nil, err
	}

	previous := o.Status
	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.OrderStatusChanged(ctx, updated, previous); err != nil {
			log.Warn("failed to enqueue cancellation email", zap.Error(err))
		}
	}

	log.Info("order cancelled", zap.String("order_number", updated.OrderNumber))
	return updated, nil
}

// Confirm moves a pending order to confirmed. Used by payment
// reconciliation after a successful gateway callback.
func (s *service) Confirm(ctx context.Context, id uint) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != StatusPending {
		// Already moved along; reconciliation must not regress it.
		return nil
	}
	return s.repo.UpdateStatus(ctx, id, StatusConfirmed, nil, false)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != StatusPending && o.Status != StatusCancelled {
		return ErrCannotDelete
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	return s.repo.Statistics(ctx)
}

func validateTransition(from, to Status) error {
	if from == to {
		return ErrSameStatus
	}
	if from.IsTerminal() {
		return ErrTerminalStatus
	}
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}
