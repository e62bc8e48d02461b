package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation detecta el SQLSTATE 23505 (unique_violation), que los
// adaptadores traducen a los errores de dominio de duplicado. El fallback por
// texto cubre errores envueltos que ya no exponen el *pgconn.PgError.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}
