// catalog-service/internal/store/database.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib" // Драйвер "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Драйвер "postgres"
)

// Database - соединение с PostgreSQL и транзакционные области для многошаговых записей.
type Database struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewDatabase оборачивает уже открытое соединение.
func NewDatabase(db *sqlx.DB, logger *slog.Logger) (*Database, error) {
	if db == nil {
		return nil, errNilDatabaseConnection
	}
	return &Database{db: db, logger: logger}, nil
}

// Connect открывает пул соединений и проверяет его ping'ом.
// driver - "postgres" (lib/pq) или "pgx" (jackc/pgx stdlib).
func Connect(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Database, error) {
	logger.InfoContext(ctx, "Attempting to connect to catalog database", slog.String("driver", driver), slog.String("dbURL_used", redactDSN(dsn)))

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to catalog PostgreSQL", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to ping catalog PostgreSQL database", slog.String("error", err.Error()))
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.InfoContext(ctx, "Successfully connected to catalog PostgreSQL database.")
	return &Database{db: db, logger: logger}, nil
}

// DB возвращает соединение для одиночных запросов вне транзакции.
func (d *Database) DB() *sqlx.DB {
	return d.db
}

func (d *Database) Close() error {
	d.logger.Info("Closing catalog PostgreSQL database connection...")
	return d.db.Close()
}

// WithTx выполняет fn в одной транзакции: commit только если fn вернула nil,
// rollback при ошибке, панике или отмене контекста.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				d.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.String("error", rbErr.Error()))
			}
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	return fn(tx)
}

// redactDSN скрывает пароль для логов.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "********")
	}
	return u.String()
}
