package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
)

func TestRunSagaExecutesAllSteps(t *testing.T) {
	var order []string

	steps := []sagaStep{
		{name: "one", run: func(context.Context) error { order = append(order, "one"); return nil }},
		{name: "two", run: func(context.Context) error { order = append(order, "two"); return nil }},
	}

	err := runSaga(context.Background(), steps)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, order)
}

func TestRunSagaCompensatesInReverse(t *testing.T) {
	var compensated []string
	boom := errors.New("boom")

	steps := []sagaStep{
		{
			name: "one",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				compensated = append(compensated, "one")
				return nil
			},
		},
		{
			// no compensation of its own
			name: "two",
			run:  func(context.Context) error { return nil },
		},
		{
			name: "three",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				compensated = append(compensated, "three")
				return nil
			},
		},
		{
			name: "four",
			run:  func(context.Context) error { return boom },
			compensate: func(context.Context) error {
				compensated = append(compensated, "four")
				return nil
			},
		},
	}

	err := runSaga(context.Background(), steps)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// The failed step's own compensation must not run.
	assert.Equal(t, []string{"three", "one"}, compensated)
}

func TestRunSagaPreservesTypedErrors(t *testing.T) {
	steps := []sagaStep{
		{
			name: "failing",
			run: func(context.Context) error {
				return domain.NewExternalServiceError("identity service", errors.New("down"))
			},
		},
	}

	err := runSaga(context.Background(), steps)
	require.Error(t, err)

	var extErr *domain.ExternalServiceError
	assert.ErrorAs(t, err, &extErr)
}

func TestRunSagaContinuesRollbackPastFailedCompensation(t *testing.T) {
	var compensated []string

	steps := []sagaStep{
		{
			name: "one",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				compensated = append(compensated, "one")
				return nil
			},
		},
		{
			name: "two",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				return errors.New("compensation failed")
			},
		},
		{
			name: "three",
			run:  func(context.Context) error { return errors.New("boom") },
		},
	}

	err := runSaga(context.Background(), steps)
	require.Error(t, err)
	assert.Equal(t, []string{"one"}, compensated)
}
