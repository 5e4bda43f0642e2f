package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"shopviet-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	// Load replaces the in-memory snapshot from the database. Called at
	// startup and by Refresh.
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error

	String(key, fallback string) string
	Number(key string, fallback float64) float64
	Bool(key string, fallback bool) bool
	JSON(key string, out any) error

	All(ctx context.Context, category *Category) ([]*Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	Update(ctx context.Context, key string, value any, description *string) (*Setting, error)
	UpdateBulk(ctx context.Context, updates map[string]any) (int, error)
	Create(ctx context.Context, key string, value any, dataType DataType, category Category, description *string) (*Setting, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo Repository

	mu       sync.RWMutex
	snapshot map[string]Value
}

func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		snapshot: make(map[string]Value),
	}
}

func (s *service) Load(ctx context.Context) error {
	all, err := s.repo.GetAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	snap := make(map[string]Value, len(all))
	for _, st := range all {
		snap[st.Key] = st.Parsed
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	logger.L().Info("settings loaded", zap.Int("count", len(snap)))
	return nil
}

func (s *service) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *service) lookup(key string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.snapshot[key]
	return v, ok
}

func (s *service) String(key, fallback string) string {
	if v, ok := s.lookup(key); ok && v.Type == TypeString {
		return v.Str
	}
	return fallback
}

func (s *service) Number(key string, fallback float64) float64 {
	if v, ok := s.lookup(key); ok && v.Type == TypeNumber {
		return v.Num
	}
	return fallback
}

func (s *service) Bool(key string, fallback bool) bool {
	if v, ok := s.lookup(key); ok && v.Type == TypeBoolean {
		return v.Bool
	}
	return fallback
}

func (s *service) JSON(key string, out any) error {
	v, ok := s.lookup(key)
	if !ok {
		return ErrNotFound
	}
	if v.Type != TypeJSON {
		return ErrInvalidType
	}
	return json.Unmarshal(v.Object, out)
}

func (s *service) All(ctx context.Context, category *Category) ([]*Setting, error) {
	if category != nil && !ValidCategory(*category) {
		return nil, ErrInvalidCategory
	}
	return s.repo.GetAll(ctx, category)
}

func (s *service) Get(ctx context.Context, key string) (*Setting, error) {
	return s.repo.GetByKey(ctx, key)
}

func (s *service) Update(ctx context.Context, key string, value any, description *string) (*Setting, error) {
	existing, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	encoded, err := EncodeValue(existing.DataType, value)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateValue(ctx, key, encoded, description); err != nil {
		return nil, err
	}

	s.applyLocal(key, existing.DataType, encoded)
	return s.repo.GetByKey(ctx, key)
}

func (s *service) UpdateBulk(ctx context.Context, updates map[string]any) (int, error) {
	encoded := make(map[string]string, len(updates))
	types := make(map[string]DataType, len(updates))

	for key, value := range updates {
		existing, err := s.repo.GetByKey(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("setting %q: %w", key, err)
		}
		enc, err := EncodeValue(existing.DataType, value)
		if err != nil {
			return 0, fmt.Errorf("setting %q: %w", key, err)
		}
		encoded[key] = enc
		types[key] = existing.DataType
	}

	if err := s.repo.UpdateBulk(ctx, encoded); err != nil {
		return 0, err
	}

	for key, enc := range encoded {
		s.applyLocal(key, types[key], enc)
	}
	return len(encoded), nil
}

func (s *service) Create(ctx context.Context, key string, value any, dataType DataType, category Category, description *string) (*Setting, error) {
	if !ValidDataType(dataType) {
		return nil, ErrInvalidType
	}
	if !ValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	encoded, err := EncodeValue(dataType, value)
	if err != nil {
		return nil, err
	}

	st := &Setting{
		Key:         key,
		Value:       encoded,
		DataType:    dataType,
		Category:    category,
		Description: description,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}

	s.applyLocal(key, dataType, encoded)
	return s.repo.GetByKey(ctx, key)
}

func (s *service) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.snapshot, key)
	s.mu.Unlock()
	return nil
}

func (s *service) applyLocal(key string, dataType DataType, raw string) {
	parsed, err := ParseValue(dataType, raw)
	if err != nil {
		logger.L().Warn("failed to parse updated setting, snapshot stale until refresh",
			zap.String("key", key), zap.Error(err))
		return
	}
	s.mu.Lock()
	s.snapshot[key] = parsed
	s.mu.Unlock()
}
