package category

import (
	"context"

	"shopviet-be/internal/logger"
	"shopviet-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, activeOnly bool) ([]*Category, error)
	Get(ctx context.Context, id uint) (*Category, error)
	Create(ctx context.Context, input CreateInput) (*Category, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*Category, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]*Category, error) {
	return s.repo.GetAll(ctx, activeOnly)
}

func (s *service) Get(ctx context.Context, id uint) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateCategory"),
		zap.String("name", input.Name),
	)

	if input.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	c := &Category{
		Name:        input.Name,
		Slug:        utils.Slugify(input.Name),
		Description: input.Description,
		ParentID:    input.ParentID,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		log.Error("failed to create category", zap.Error(err))
		return nil, err
	}

	log.Info("category created", zap.Uint("id", created.ID))
	return created, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateCategory"),
		zap.Uint("id", id),
	)

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
	if input.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *input.ParentID); err != nil {
			return nil, err
		}
		existing.ParentID = input.ParentID
	}
	if input.ImageURL != nil {
		existing.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		log.Error("failed to update category", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteCategory"),
		zap.Uint("id", id),
	)

	n, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Warn("delete rejected, category still referenced", zap.Int64("products", n))
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("failed to delete category", zap.Error(err))
		return err
	}
	return nil
}
