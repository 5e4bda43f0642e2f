package review

import (
	"context"

	"shopviet-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, userID uint, input CreateInput) (*Review, error)
	ListByProduct(ctx context.Context, productID uint, limit, page int) ([]*Review, int64, error)
	ListAdmin(ctx context.Context, filter AdminListFilter) ([]*Review, int64, error)
	Approve(ctx context.Context, id uint) (*Review, error)
	Reject(ctx context.Context, id uint) (*Review, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID uint, input CreateInput) (*Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateReview"),
		zap.Uint("user_id", userID),
		zap.Uint("product_id", input.ProductID),
	)

	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	purchased, err := s.repo.HasDeliveredPurchase(ctx, userID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		log.Warn("review rejected, no delivered purchase")
		return nil, ErrPurchaseRequired
	}

	rv := &Review{
		ProductID: input.ProductID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		Status:    StatusPending,
	}
	created, err := s.repo.Create(ctx, rv)
	if err != nil {
		log.Error("failed to create review", zap.Error(err))
		return nil, err
	}

	log.Info("review created", zap.Uint("review_id", created.ID))
	return created, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uint, limit, page int) ([]*Review, int64, error) {
	return s.repo.ListApprovedByProduct(ctx, productID, limit, page)
}

func (s *service) ListAdmin(ctx context.Context, filter AdminListFilter) ([]*Review, int64, error) {
	return s.repo.ListAdmin(ctx, filter)
}

func (s *service) Approve(ctx context.Context, id uint) (*Review, error) {
	return s.moderate(ctx, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, id uint) (*Review, error) {
	return s.moderate(ctx, id, StatusRejected)
}

func (s *service) moderate(ctx context.Context, id uint, status Status) (*Review, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusPending {
		return nil, ErrAlreadyModerated
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
