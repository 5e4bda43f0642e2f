package cart

import (
	"context"

	"shopviet-be/internal/logger"
	"shopviet-be/internal/product"

	"go.uber.org/zap"
)

// ProductReader is the slice of the product repository the cart needs
// for availability checks.
type ProductReader interface {
	GetByID(ctx context.Context, id uint) (*product.Product, error)
}

type Service interface {
	Get(ctx context.Context, userID uint) (*Cart, error)
	AddItem(ctx context.Context, userID uint, input AddItemInput) (*Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uint, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uint) (*Cart, error)
	Clear(ctx context.Context, userID uint) error
}

type service struct {
	repo     Repository
	products ProductReader
}

func NewService(repo Repository, products ProductReader) Service {
	return &service{repo: repo, products: products}
}

func (s *service) Get(ctx context.Context, userID uint) (*Cart, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *service) AddItem(ctx context.Context, userID uint, input AddItemInput) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddCartItem"),
		zap.Uint("user_id", userID),
		zap.Uint("product_id", input.ProductID),
	)

	if input.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrProductInactive
	}
	if p.StockQuantity < input.Quantity {
		return nil, ErrNotEnoughStock
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.UpsertItem(ctx, cart.ID, input.ProductID, input.VariantID, input.Quantity); err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return nil, err
	}

	log.Info("cart item added", zap.Int("quantity", input.Quantity))
	return s.repo.GetByUser(ctx, userID)
}

func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uint, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if err := s.authorizeItem(ctx, userID, itemID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.StockQuantity < quantity {
		return nil, ErrNotEnoughStock
	}

	if err := s.repo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByUser(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uint) (*Cart, error) {
	if err := s.authorizeItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.GetByUser(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.Clear(ctx, cart.ID)
}

func (s *service) authorizeItem(ctx context.Context, userID, itemID uint) error {
	owner, err := s.repo.ItemOwner(ctx, itemID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrItemNotOwned
	}
	return nil
}
