package notification

import "context"

type Service interface {
	Create(ctx context.Context, userID *uint, title, message string, typ Type) (*Notification, error)
	ListMine(ctx context.Context, userID uint, limit, page int) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, userID, id uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID *uint, title, message string, typ Type) (*Notification, error) {
	return s.repo.Create(ctx, &Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
	})
}

func (s *service) ListMine(ctx context.Context, userID uint, limit, page int) ([]*Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit, page)
}

func (s *service) MarkRead(ctx context.Context, userID, id uint) error {
	recipient, err := s.repo.Recipient(ctx, id)
	if err != nil {
		return err
	}
	if recipient == nil || *recipient != userID {
		return ErrNotRecipient
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}
