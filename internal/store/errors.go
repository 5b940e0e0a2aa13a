// catalog-service/internal/store/errors.go
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	ErrMovieNotFound         = errors.New("movie not found")
	ErrMovieAlreadyExists    = errors.New("movie with this slug already exists")
	ErrUnsupportedSortField  = errors.New("unsupported sort field")
	errNilDatabaseConnection = errors.New("database connection (db) cannot be nil")
)

// Коды ошибок PostgreSQL, которые мы различаем
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// pgErrorCode достаёт SQLSTATE и имя ограничения из ошибки любого из драйверов (lib/pq или pgx).
func pgErrorCode(err error) (code string, constraint string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isUniqueViolation(err error) bool {
	code, _ := pgErrorCode(err)
	return code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	code, _ := pgErrorCode(err)
	return code == pgForeignKeyViolation
}
