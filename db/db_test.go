package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/models"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"bad conn", driver.ErrBadConn, true},
		{"wrapped bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), true},
		{"connection failure", &pq.Error{Code: "08006"}, true},
		{"serialization failure", &pq.Error{Code: "40001"}, true},
		{"deadlock", &pq.Error{Code: "40P01"}, true},
		{"too many connections", &pq.Error{Code: "53300"}, true},
		{"admin shutdown", &pq.Error{Code: "57P01"}, true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{"syntax error", &pq.Error{Code: "42601"}, false},
		{"no rows", sql.ErrNoRows, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransient(tc.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(sql.ErrNoRows), models.ErrRecordNotFound)
	assert.ErrorIs(t, classify(&pq.Error{Code: "23505", Constraint: "users_email_key"}), models.ErrDuplicate)

	err := classify(&pq.Error{Code: "40001"})
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr), "исходная ошибка драйвера должна сохраняться")

	other := errors.New("boom")
	assert.Equal(t, other, classify(other))
}

func TestDoRetriesTransientErrors(t *testing.T) {
	s := &Storage{retry: RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond}}

	calls := 0
	err := s.do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return driver.ErrBadConn
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUpAsUnavailable(t *testing.T) {
	s := &Storage{retry: RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}}

	calls := 0
	err := s.do(context.Background(), func(ctx context.Context) error {
		calls++
		return &pq.Error{Code: "40P01"}
	})
	require.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.Equal(t, 3, calls)
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	s := &Storage{retry: RetryPolicy{MaxRetries: 5, BaseDelay: time.Millisecond}}

	calls := 0
	err := s.do(context.Background(), func(ctx context.Context) error {
		calls++
		return sql.ErrNoRows
	})
	require.ErrorIs(t, err, models.ErrRecordNotFound)
	assert.Equal(t, 1, calls)
}

func TestDoInsideTxDoesNotRetry(t *testing.T) {
	s := &Storage{retry: RetryPolicy{MaxRetries: 5, BaseDelay: time.Millisecond}, inTx: true}

	calls := 0
	err := s.do(context.Background(), func(ctx context.Context) error {
		calls++
		return driver.ErrBadConn
	})
	require.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.Equal(t, 1, calls)
}
