// Package workflow реализует процесс закупки RFQ -> Bid -> PO -> Invoice.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"procurement/internal/validation"
	"procurement/models"
)

// Engine выполняет операции процесса закупки и следит за допустимыми переходами статусов
type Engine struct {
	store    Store
	logger   *zap.Logger
	validate *validation.Validator
	now      func() time.Time
}

type Option func(*Engine)

// WithClock подменяет источник времени, используется в тестах
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(store Store, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		logger:   logger,
		validate: validation.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// storeErr переводит ошибку хранилища в вид ошибки процесса
func storeErr(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	name := entity
	if id != "" {
		name += " " + id
	}
	var domainErr *models.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, models.ErrRecordNotFound):
		return models.NotFound("%s not found", name)
	case errors.Is(err, models.ErrDuplicate):
		return models.Conflict("%s conflicts with existing data", name)
	case errors.Is(err, models.ErrStoreUnavailable):
		return &models.Error{Kind: models.ErrUnavailable, Message: "storage is temporarily unavailable"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%s: %w", name, err)
	}
}

// lookupParty возвращает nil, если пользователь не найден
func (e *Engine) lookupParty(ctx context.Context, repo Repository, cache map[string]*models.Party, id string) (*models.Party, error) {
	if p, ok := cache[id]; ok {
		return p, nil
	}
	u, err := repo.GetUser(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		cache[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err, "user", id)
	}
	cache[id] = u.Party()
	return cache[id], nil
}
