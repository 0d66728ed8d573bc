package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isInvalidJSON verifica si un error es un rechazo del tipo json (22P02 invalid_text_representation).
func isInvalidJSON(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}
