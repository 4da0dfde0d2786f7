package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Códigos SQLSTATE que el adaptador traduce a errores de dominio.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeCheckViolation       = "23514"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeNumericOutOfRange    = "22003"
)

// classify traduce errores de pgx a los errores de dominio. Los errores que ya son de dominio
// pasan sin cambios.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrInvalidInput, domain.ErrInsufficientStock, domain.ErrNotFound,
		domain.ErrConflict, domain.ErrStoreUnavailable, context.Canceled,
	} {
		if errors.Is(err, known) {
			return err
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeSerializationFailure,
			pgErr.Code == codeDeadlockDetected,
			pgErr.Code == codeLockNotAvailable,
			pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		case pgErr.Code == codeCheckViolation && pgErr.ConstraintName == "stock_levels_quantity_non_negative":
			return fmt.Errorf("%w: %w: %w", domain.ErrConflict, domain.ErrInsufficientStock, err)
		case pgErr.Code == codeNumericOutOfRange:
			return domain.NewValidationError("quantity", "el stock resultante excede el máximo representable")
		case pgErr.Code == codeForeignKeyViolation:
			return domain.NewValidationError(pgErr.ConstraintName, "referencia a un registro inexistente")
		case len(pgErr.Code) == 5 && (pgErr.Code[:2] == "08" || pgErr.Code[:2] == "57" || pgErr.Code[:2] == "53"):
			// 08 conexión, 53 recursos insuficientes, 57 intervención del operador
			return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
