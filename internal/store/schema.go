// catalog-service/internal/store/schema.go
package store

import (
	"context"
	"fmt"
	"log/slog"
)

// schemaStatements создают таблицы, если их ещё нет. Это не миграции: изменения схемы сюда не добавляются.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id              UUID PRIMARY KEY,
		slug            TEXT NOT NULL,
		title           TEXT NOT NULL,
		year_of_release INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS movies_slug_idx ON movies (slug)`,
	`CREATE TABLE IF NOT EXISTS genres (
		movie_id UUID NOT NULL REFERENCES movies (id),
		name     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS genres_movie_id_idx ON genres (movie_id)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		movie_id UUID NOT NULL REFERENCES movies (id),
		user_id  UUID NOT NULL,
		rating   INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		CONSTRAINT ratings_movie_user_key UNIQUE (movie_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS ratings_user_id_idx ON ratings (user_id)`,
}

// InitSchema применяет schemaStatements по очереди.
func (d *Database) InitSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			d.logger.ErrorContext(ctx, "Failed to apply schema statement", slog.Int("statement", i), slog.String("error", err.Error()))
			return fmt.Errorf("failed to initialize schema (statement %d): %w", i, err)
		}
	}
	d.logger.InfoContext(ctx, "Catalog schema is ready", slog.Int("statements", len(schemaStatements)))
	return nil
}
