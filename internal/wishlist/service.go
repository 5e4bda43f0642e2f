package wishlist

import (
	"context"
	"errors"

	"shopviet-be/internal/logger"
	"shopviet-be/internal/product"

	"go.uber.org/zap"
)

// ProductReader is the slice of the product repository needed for
// existence checks.
type ProductReader interface {
	GetByID(ctx context.Context, id uint) (*product.Product, error)
}

type Service interface {
	List(ctx context.Context, userID uint) ([]*Item, error)
	// Add puts the product on the user's wishlist and returns the row
	// ID. Adding an already-listed product is a no-op.
	Add(ctx context.Context, userID, productID uint) (uint, error)
	Remove(ctx context.Context, userID, productID uint) error
	Contains(ctx context.Context, userID, productID uint) (bool, error)
	Clear(ctx context.Context, userID uint) (int64, error)
}

type service struct {
	repo     Repository
	products ProductReader
}

func NewService(repo Repository, products ProductReader) Service {
	return &service{repo: repo, products: products}
}

func (s *service) List(ctx context.Context, userID uint) ([]*Item, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Add(ctx context.Context, userID, productID uint) (uint, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddWishlistItem"),
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
	)

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	if !p.IsActive {
		return 0, ErrProductInactive
	}

	id, err := s.repo.Add(ctx, userID, productID)
	if err != nil {
		log.Error("failed to add wishlist item", zap.Error(err))
		return 0, err
	}

	log.Info("wishlist item added")
	return id, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uint) error {
	return s.repo.Remove(ctx, userID, productID)
}

func (s *service) Contains(ctx context.Context, userID, productID uint) (bool, error) {
	return s.repo.Contains(ctx, userID, productID)
}

func (s *service) Clear(ctx context.Context, userID uint) (int64, error) {
	return s.repo.Clear(ctx, userID)
}
