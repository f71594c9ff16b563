//go:build !integration

package postgres

import (
	"errors"
	"testing"

	"recharge-inventory/internal/domain"
)

func TestGetExecutor(t *testing.T) {
	t.Run("should use a live transaction as-is", func(t *testing.T) {
		tx := fakeTx{}
		ex, err := getExecutor(nil, tx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := ex.(fakeTx); !ok {
			t.Errorf("expected the tx to be returned, got %T", ex)
		}
		if !inTx(tx) {
			t.Error("fakeTx should count as a transaction")
		}
	})

	t.Run("should fail without pool or tx", func(t *testing.T) {
		if _, err := getExecutor(nil, nil); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if inTx(nil) {
			t.Error("nil is not a transaction")
		}
	})

	t.Run("should reject foreign handles", func(t *testing.T) {
		if _, err := getExecutor(nil, "not-a-tx"); !errors.Is(err, domain.ErrInvalidExecContext) {
			t.Errorf("expected ErrInvalidExecContext, got %v", err)
		}
	})
}
