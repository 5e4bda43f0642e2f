package user

import (
	"context"
	"errors"

	"shopviet-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (string, *User, error)
	Login(ctx context.Context, input LoginInput) (string, *User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*User, error)

	ListAdmin(ctx context.Context, filter AdminListFilter) ([]*AdminListItem, int64, error)
	// UpdateRole changes a user's role. Admins cannot change their own.
	UpdateRole(ctx context.Context, actorID, id uint, role string) (*User, error)
	// SetActive blocks or unblocks an account. Admins cannot block
	// themselves.
	SetActive(ctx context.Context, actorID, id uint, active bool) (*User, error)
	// Delete soft-deletes by deactivating the account; users with
	// orders still in fulfilment are refused.
	Delete(ctx context.Context, actorID, id uint) error
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{repo: repo, jwtSecret: jwtSecret}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
		zap.String("email", input.Email),
	)

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, err
	}

	u, err := s.repo.Create(ctx, &User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     RoleUser,
	})
	if err != nil {
		if !errors.Is(err, ErrEmailExists) {
			log.Error("failed to create user", zap.Error(err))
		}
		return "", nil, err
	}

	token, err := GenerateJWT(s.jwtSecret, u.ID, u.Email, u.Role)
	if err != nil {
		log.Error("failed to generate jwt", zap.Error(err))
		return "", nil, err
	}

	log.Info("user registered", zap.Uint("user_id", u.ID))
	return token, u, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
		zap.String("email", input.Email),
	)

	u, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !CheckPasswordHash(input.Password, u.Password) {
		log.Warn("login rejected, bad password")
		return "", nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		log.Warn("login rejected, account disabled", zap.Uint("user_id", u.ID))
		return "", nil, ErrAccountDisabled
	}

	token, err := GenerateJWT(s.jwtSecret, u.ID, u.Email, u.Role)
	if err != nil {
		log.Error("failed to generate jwt", zap.Error(err))
		return "", nil, err
	}

	log.Info("user logged in", zap.Uint("user_id", u.ID))
	return token, u, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*User, error) {
	return s.repo.UpdateProfile(ctx, id, input)
}

func (s *service) ListAdmin(ctx context.Context, filter AdminListFilter) ([]*AdminListItem, int64, error) {
	return s.repo.ListAdmin(ctx, filter)
}

func (s *service) UpdateRole(ctx context.Context, actorID, id uint, role string) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateUserRole"),
		zap.Uint("user_id", id),
		zap.String("role", role),
	)

	if role != RoleUser && role != RoleAdmin {
		return nil, ErrInvalidRole
	}
	if actorID == id {
		return nil, ErrCannotModifySelf
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.Error("failed to update role", zap.Error(err))
		}
		return nil, err
	}

	log.Info("user role updated")
	return s.repo.GetByID(ctx, id)
}

func (s *service) SetActive(ctx context.Context, actorID, id uint, active bool) (*User, error) {
	if actorID == id {
		return nil, ErrCannotModifySelf
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("user status updated",
		zap.String("layer", "service"),
		zap.Uint("user_id", id),
		zap.Bool("active", active))
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, actorID, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteUser"),
		zap.Uint("user_id", id),
	)

	if actorID == id {
		return ErrCannotModifySelf
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.repo.CountActiveOrders(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrUserHasActiveOrders
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	log.Info("user deactivated")
	return nil
}
