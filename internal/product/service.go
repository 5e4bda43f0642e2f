package product

import (
	"context"

	"shopviet-be/internal/logger"
	"shopviet-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]*Product, int64, error)
	Get(ctx context.Context, id uint) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Create(ctx context.Context, input CreateInput) (*Product, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*Product, error)
	Delete(ctx context.Context, id uint) error
	SetStock(ctx context.Context, id uint, quantity int) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Product, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Get(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
		zap.String("name", input.Name),
	)

	if err := validatePricing(input.Price, input.SalePrice); err != nil {
		return nil, err
	}
	if input.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}

	p := &Product{
		Name:          input.Name,
		Slug:          utils.Slugify(input.Name),
		Description:   input.Description,
		Brand:         input.Brand,
		CategoryID:    input.CategoryID,
		Price:         input.Price,
		SalePrice:     input.SalePrice,
		StockQuantity: input.StockQuantity,
		IsActive:      true,
		IsFeatured:    input.IsFeatured,
	}

	created, err := s.repo.Create(ctx, p, input.Images)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Uint("id", created.ID))
	return created, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		existing.Name = *input.Name
		existing.Slug = utils.Slugify(*input.Name)
	}
	if input.Description != nil {
		existing.Description = input.Description
	}
	if input.Brand != nil {
		existing.Brand = input.Brand
	}
	if input.CategoryID != nil {
		existing.CategoryID = *input.CategoryID
	}
	if input.Price != nil {
		existing.Price = *input.Price
	}
	if input.SalePrice != nil {
		existing.SalePrice = input.SalePrice
	}
	if input.ClearSale {
		existing.SalePrice = nil
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		existing.IsFeatured = *input.IsFeatured
	}

	if err := validatePricing(existing.Price, existing.SalePrice); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, existing)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) SetStock(ctx context.Context, id uint, quantity int) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SetStock"),
		zap.Uint("product_id", id),
		zap.Int("quantity", quantity),
	)

	if quantity < 0 {
		return nil, ErrInvalidStock
	}
	if err := s.repo.SetStock(ctx, id, quantity); err != nil {
		log.Error("failed to set stock", zap.Error(err))
		return nil, err
	}

	log.Info("stock updated")
	return s.repo.GetByID(ctx, id)
}

func validatePricing(price decimal.Decimal, salePrice *decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}
	if salePrice != nil && (salePrice.LessThanOrEqual(decimal.Zero) || salePrice.GreaterThan(price)) {
		return ErrInvalidPrice
	}
	return nil
}
