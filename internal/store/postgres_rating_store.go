// catalog-service/internal/store/postgres_rating_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"catalog-service/internal/domain"
)

// PostgresRatingStore реализует RatingStore для PostgreSQL.
type PostgresRatingStore struct {
	db     *Database
	logger *slog.Logger
}

// NewPostgresRatingStore создает новый экземпляр PostgresRatingStore.
func NewPostgresRatingStore(db *Database, logger *slog.Logger) (*PostgresRatingStore, error) {
	if db == nil {
		return nil, errNilDatabaseConnection
	}
	return &PostgresRatingStore{db: db, logger: logger}, nil
}

// Rate - upsert по ключу (movie_id, user_id). Гонку между конкурентными оценками разрешает сама БД.
func (s *PostgresRatingStore) Rate(ctx context.Context, movieID string, rating int, userID string) (bool, error) {
	query := `INSERT INTO ratings (movie_id, user_id, rating) VALUES ($1, $2, $3)
              ON CONFLICT (movie_id, user_id) DO UPDATE SET rating = EXCLUDED.rating`

	s.logger.DebugContext(ctx, "Executing Rate movie query", slog.String("movieID", movieID), slog.String("userID", userID), slog.Int("rating", rating))
	result, err := s.db.DB().ExecContext(ctx, query, movieID, userID, rating)
	if err != nil {
		if isForeignKeyViolation(err) {
			// Фильм удалили между проверкой существования и записью
			s.logger.WarnContext(ctx, "Movie disappeared before rating was stored", slog.String("movieID", movieID))
			return false, ErrMovieNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to rate movie in DB", slog.String("movieID", movieID), slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to rate movie: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rate result: %w", err)
	}
	s.logger.InfoContext(ctx, "Movie rated successfully in DB", slog.String("movieID", movieID), slog.String("userID", userID))
	return rowsAffected > 0, nil
}

// GetRating возвращает среднюю оценку фильма или nil, если оценок нет.
func (s *PostgresRatingStore) GetRating(ctx context.Context, movieID string) (*float64, error) {
	var avg sql.NullFloat64
	query := `SELECT ROUND(AVG(rating)::numeric, 1)::float8 FROM ratings WHERE movie_id = $1::uuid`

	s.logger.DebugContext(ctx, "Executing GetRating query", slog.String("movieID", movieID))
	if err := s.db.DB().GetContext(ctx, &avg, query, movieID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to get rating from DB", slog.String("movieID", movieID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get rating for movieID %s: %w", movieID, err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// GetRatingWithUser возвращает среднюю оценку и оценку конкретного пользователя.
func (s *PostgresRatingStore) GetRatingWithUser(ctx context.Context, movieID, userID string) (*float64, *int, error) {
	query := `SELECT ROUND(AVG(r.rating)::numeric, 1)::float8 AS rating,
                     (SELECT u.rating FROM ratings u WHERE u.movie_id = $1::uuid AND u.user_id = $2::uuid) AS user_rating
                FROM ratings r
               WHERE r.movie_id = $1::uuid`

	var row struct {
		Rating     sql.NullFloat64 `db:"rating"`
		UserRating sql.NullInt64   `db:"user_rating"`
	}
	s.logger.DebugContext(ctx, "Executing GetRatingWithUser query", slog.String("movieID", movieID), slog.String("userID", userID))
	if err := s.db.DB().GetContext(ctx, &row, query, movieID, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to get ratings from DB", slog.String("movieID", movieID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to get ratings for movieID %s: %w", movieID, err)
	}

	var rating *float64
	if row.Rating.Valid {
		rating = &row.Rating.Float64
	}
	var userRating *int
	if row.UserRating.Valid {
		v := int(row.UserRating.Int64)
		userRating = &v
	}
	return rating, userRating, nil
}

// DeleteRating удаляет оценку пользователя для фильма.
func (s *PostgresRatingStore) DeleteRating(ctx context.Context, movieID, userID string) (bool, error) {
	query := `DELETE FROM ratings WHERE movie_id = $1 AND user_id = $2`

	s.logger.DebugContext(ctx, "Executing DeleteRating query", slog.String("movieID", movieID), slog.String("userID", userID))
	result, err := s.db.DB().ExecContext(ctx, query, movieID, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete rating from DB", slog.String("movieID", movieID), slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to delete rating: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rating delete result: %w", err)
	}
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No rating found to delete", slog.String("movieID", movieID), slog.String("userID", userID))
	}
	return rowsAffected > 0, nil
}

// ListForUser возвращает все оценки пользователя, упорядоченные по ID фильма.
func (s *PostgresRatingStore) ListForUser(ctx context.Context, userID string) ([]domain.MovieRating, error) {
	query := `SELECT r.movie_id, r.rating, m.slug
                FROM ratings r
                JOIN movies m ON m.id = r.movie_id
               WHERE r.user_id = $1::uuid
               ORDER BY r.movie_id`

	ratings := []domain.MovieRating{}
	s.logger.DebugContext(ctx, "Executing ListForUser query", slog.String("userID", userID))
	if err := s.db.DB().SelectContext(ctx, &ratings, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list user ratings from DB", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list ratings for user: %w", err)
	}
	return ratings, nil
}
