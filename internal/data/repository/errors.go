package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// translateDBErr maps a unique violation to ErrConflict and leaves other errors untouched.
func translateDBErr(err error) error {
	if err == nil {
		return nil
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) && pge.Code == "23505" {
		return ErrConflict
	}

	return err
}
