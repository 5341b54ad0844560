package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"serialization failure", &pgconn.PgError{Code: codeSerializationFailure}, domain.ErrVersionConflict},
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, domain.ErrVersionConflict},
		{"duplicate txn id", fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation}), domain.ErrVersionConflict},
		{"negative balance", &pgconn.PgError{Code: codeCheckViolation}, domain.ErrInsufficientFunds},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, domain.ErrStorageUnavailable},
		{"network", errors.New("connection reset by peer"), domain.ErrStorageUnavailable},
		{"deadline", context.DeadlineExceeded, context.DeadlineExceeded},
		{"already mapped", domain.ErrVersionConflict, domain.ErrVersionConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapError(tt.err); !errors.Is(got, tt.want) {
				t.Fatalf("mapError(%v)=%v want %v", tt.err, got, tt.want)
			}
		})
	}
}
