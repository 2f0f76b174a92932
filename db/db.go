package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"procurement/internal/workflow"
	"procurement/models"
)

// RetryPolicy ограничивает повторы при временных ошибках базы
type RetryPolicy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.BaseDelay
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	return retry.WithMaxRetries(p.MaxRetries, retry.WithJitterPercent(20, retry.NewExponential(base)))
}

// Storage реализует workflow.Store поверх PostgreSQL
type Storage struct {
	db    *sqlx.DB
	q     sqlx.ExtContext
	retry RetryPolicy
	inTx  bool
}

var _ workflow.Store = (*Storage)(nil)

func NewStorage(db *sqlx.DB, policy RetryPolicy) *Storage {
	return &Storage{db: db, q: db, retry: policy}
}

// Open подключается к базе и проверяет соединение
func Open(ctx context.Context, url string, maxOpen, maxIdle int, maxLifetime time.Duration) (*sqlx.DB, error) {
	conn, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxIdle)
	conn.SetConnMaxLifetime(maxLifetime)

	if err := conn.PingContext(ctx); err != nil {
		return nil, multierr.Append(fmt.Errorf("ping postgres: %w", err), conn.Close())
	}
	return conn, nil
}

// InTx выполняет fn в одной транзакции. Временные ошибки повторяют транзакцию целиком.
func (s *Storage) InTx(ctx context.Context, fn func(ctx context.Context, repo workflow.Repository) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return retry.Do(ctx, s.retry.backoff(), func(ctx context.Context) error {
		err := s.runTx(ctx, fn)
		if errors.Is(err, models.ErrStoreUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *Storage) runTx(ctx context.Context, fn func(ctx context.Context, repo workflow.Repository) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = multierr.Append(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err = fn(ctx, &Storage{db: s.db, q: tx, retry: s.retry, inTx: true}); err != nil {
		return err
	}
	return classify(tx.Commit())
}

// do повторяет запрос вне транзакции. Внутри транзакции повторяет InTx.
func (s *Storage) do(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx {
		return classify(fn(ctx))
	}
	return retry.Do(ctx, s.retry.backoff(), func(ctx context.Context) error {
		err := classify(fn(ctx))
		if errors.Is(err, models.ErrStoreUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func getOne[T any](ctx context.Context, s *Storage, query string, args ...any) (*T, error) {
	var out *T
	err := s.do(ctx, func(ctx context.Context) error {
		v := new(T)
		if err := sqlx.GetContext(ctx, s.q, v, query, args...); err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func selectAll[T any](ctx context.Context, s *Storage, query string, args ...any) ([]T, error) {
	var out []T
	err := s.do(ctx, func(ctx context.Context) error {
		rows := []T{}
		if err := sqlx.SelectContext(ctx, s.q, &rows, query, args...); err != nil {
			return err
		}
		out = rows
		return nil
	})
	return out, err
}

// exec выполняет изменение и возвращает ErrRecordNotFound, если строка не найдена
func (s *Storage) exec(ctx context.Context, query string, args ...any) error {
	return s.do(ctx, func(ctx context.Context) error {
		res, err := s.q.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

// insert выполняет INSERT ... RETURNING и сканирует результат в dest
func (s *Storage) insert(ctx context.Context, query string, args []any, dest ...any) error {
	return s.do(ctx, func(ctx context.Context) error {
		return s.q.QueryRowxContext(ctx, query, args...).Scan(dest...)
	})
}

// classify переводит ошибки драйвера в ошибки хранилища
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrRecordNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", models.ErrDuplicate, pqErr.Constraint)
	}
	if IsTransient(err) {
		return fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
	}
	return err
}

// IsTransient сообщает, имеет ли смысл повторить операцию
func IsTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "57P01":
		return true
	}
	switch pqErr.Code.Class() {
	case "08", "53":
		return true
	}
	return false
}
