package repository

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrStoreConflict marks a unique key violation reported by Postgres.
var ErrStoreConflict = errors.New("unique constraint violated")

const uniqueViolation = "23505"

// mapError converts gorm and Postgres failures into apperr kinds. what names
// the record for the message.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what + " not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict(
			what+" already exists",
			fmt.Errorf("%w: %s", ErrStoreConflict, pgErr.ConstraintName),
		)
	}

	return fmt.Errorf("%s: %w", what, err)
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
