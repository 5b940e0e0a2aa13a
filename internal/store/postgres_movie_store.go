// catalog-service/internal/store/postgres_movie_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"catalog-service/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// movieSelect выбирает фильм со средней оценкой, оценкой пользователя ($1) и набором жанров.
// Средняя считается по всем оценкам и не зависит от $1.
const movieSelect = `SELECT m.id, m.slug, m.title, m.year_of_release,
       ROUND(AVG(r.rating)::numeric, 1)::float8 AS rating,
       myr.rating AS user_rating,
       ARRAY(SELECT DISTINCT g.name FROM genres g WHERE g.movie_id = m.id ORDER BY g.name) AS genres
  FROM movies m
  LEFT JOIN ratings r ON r.movie_id = m.id
  LEFT JOIN ratings myr ON myr.movie_id = m.id AND myr.user_id = $1::uuid`

const movieGroupBy = `
 GROUP BY m.id, myr.rating`

// Отсутствующий фильтр (NULL) пропускает все строки; форма запроса одна и та же.
const (
	listFilter = `
 WHERE ($2::text IS NULL OR strpos(lower(m.title), lower($2::text)) > 0)
   AND ($3::int IS NULL OR m.year_of_release = $3::int)`

	countQuery = `SELECT COUNT(*) FROM movies m
 WHERE ($1::text IS NULL OR strpos(lower(m.title), lower($1::text)) > 0)
   AND ($2::int IS NULL OR m.year_of_release = $2::int)`
)

// sortColumns - единственный источник выражений для ORDER BY.
var sortColumns = map[string]string{
	domain.SortFieldTitle:         "m.title",
	domain.SortFieldYearOfRelease: "m.year_of_release",
}

// movieRow - строка результата movieSelect
type movieRow struct {
	ID            string          `db:"id"`
	Slug          string          `db:"slug"`
	Title         string          `db:"title"`
	YearOfRelease int             `db:"year_of_release"`
	Rating        sql.NullFloat64 `db:"rating"`
	UserRating    sql.NullInt64   `db:"user_rating"`
	Genres        pq.StringArray  `db:"genres"`
}

func (r movieRow) toDomain() *domain.Movie {
	movie := &domain.Movie{
		ID:            r.ID,
		Slug:          r.Slug,
		Title:         r.Title,
		YearOfRelease: r.YearOfRelease,
		Genres:        domain.NormalizeGenres(r.Genres),
	}
	if r.Rating.Valid {
		rating := r.Rating.Float64
		movie.Rating = &rating
	}
	if r.UserRating.Valid {
		userRating := int(r.UserRating.Int64)
		movie.UserRating = &userRating
	}
	return movie
}

// PostgresMovieStore реализует MovieStore для PostgreSQL.
type PostgresMovieStore struct {
	db     *Database
	logger *slog.Logger
}

// NewPostgresMovieStore создает новый экземпляр PostgresMovieStore.
func NewPostgresMovieStore(db *Database, logger *slog.Logger) (*PostgresMovieStore, error) {
	if db == nil {
		return nil, errNilDatabaseConnection
	}
	return &PostgresMovieStore{db: db, logger: logger}, nil
}

// Create сохраняет фильм и его жанры в одной транзакции.
func (s *PostgresMovieStore) Create(ctx context.Context, movie *domain.Movie) error {
	s.logger.DebugContext(ctx, "Executing Create movie transaction", slog.String("movieID", movie.ID), slog.String("slug", movie.Slug))

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO movies (id, slug, title, year_of_release) VALUES ($1, $2, $3, $4)`,
			movie.ID, movie.Slug, movie.Title, movie.YearOfRelease,
		); err != nil {
			return err
		}
		return insertGenres(ctx, tx, movie.ID, movie.Genres)
	})
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.WarnContext(ctx, "Movie already exists (unique constraint violation in DB)", slog.String("slug", movie.Slug))
			return ErrMovieAlreadyExists
		}
		s.logger.ErrorContext(ctx, "Failed to create movie in DB", slog.String("movieID", movie.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to create movie: %w", err)
	}
	s.logger.InfoContext(ctx, "Movie created successfully in DB", slog.String("movieID", movie.ID))
	return nil
}

// GetByID находит фильм по его ID.
func (s *PostgresMovieStore) GetByID(ctx context.Context, id string, userID *string) (*domain.Movie, error) {
	return s.getOne(ctx, movieSelect+`
 WHERE m.id = $2::uuid`+movieGroupBy, "id", id, userID)
}

// GetBySlug находит фильм по slug.
func (s *PostgresMovieStore) GetBySlug(ctx context.Context, slug string, userID *string) (*domain.Movie, error) {
	return s.getOne(ctx, movieSelect+`
 WHERE m.slug = $2`+movieGroupBy, "slug", slug, userID)
}

func (s *PostgresMovieStore) getOne(ctx context.Context, query, key, value string, userID *string) (*domain.Movie, error) {
	var row movieRow
	s.logger.DebugContext(ctx, "Executing get movie query", slog.String(key, value))
	err := s.db.DB().GetContext(ctx, &row, query, userID, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Movie not found in DB", slog.String(key, value))
			return nil, ErrMovieNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get movie from DB", slog.String(key, value), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get movie by %s: %w", key, err)
	}
	return row.toDomain(), nil
}

// ExistsByID проверяет существование фильма.
func (s *PostgresMovieStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.DB().GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1::uuid)`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check movie existence in DB", slog.String("movieID", id), slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to check if movie exists: %w", err)
	}
	return exists, nil
}

// List возвращает страницу фильмов и общее количество под тот же фильтр.
func (s *PostgresMovieStore) List(ctx context.Context, opts domain.MovieListOptions) ([]*domain.Movie, int, error) {
	orderBy, err := orderByClause(opts)
	if err != nil {
		return nil, 0, err
	}

	var totalCount int
	s.logger.DebugContext(ctx, "Executing List movies count query", slog.Any("title", opts.Title), slog.Any("year", opts.YearOfRelease))
	if err := s.db.DB().GetContext(ctx, &totalCount, countQuery, opts.Title, opts.YearOfRelease); err != nil {
		s.logger.ErrorContext(ctx, "Failed to count movies in DB", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}
	if totalCount == 0 {
		return []*domain.Movie{}, 0, nil
	}
	offset := opts.Offset()
	if offset < 0 || offset >= totalCount {
		// Страница за концом списка (или переполненное смещение) - пустая страница
		return []*domain.Movie{}, totalCount, nil
	}

	query := movieSelect + listFilter + movieGroupBy + orderBy + `
 LIMIT $4 OFFSET $5`

	var rows []movieRow
	s.logger.DebugContext(ctx, "Executing List movies select query", slog.String("order_by", orderBy), slog.Int("page", opts.Page), slog.Int("page_size", opts.PageSize))
	err = s.db.DB().SelectContext(ctx, &rows, query, opts.UserID, opts.Title, opts.YearOfRelease, opts.PageSize, offset)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list movies from DB", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}

	movies := make([]*domain.Movie, 0, len(rows))
	for _, row := range rows {
		movies = append(movies, row.toDomain())
	}
	return movies, totalCount, nil
}

// orderByClause собирает ORDER BY только из значений sortColumns; m.id - всегда последний ключ.
func orderByClause(opts domain.MovieListOptions) (string, error) {
	if opts.SortField == nil {
		return `
 ORDER BY m.id`, nil
	}
	column, ok := sortColumns[strings.ToLower(*opts.SortField)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSortField, *opts.SortField)
	}
	direction := "ASC"
	if opts.SortOrder == domain.SortDescending {
		direction = "DESC"
	}
	return `
 ORDER BY ` + column + ` ` + direction + `, m.id`, nil
}

// Update заменяет название, год, slug и жанры фильма в одной транзакции.
func (s *PostgresMovieStore) Update(ctx context.Context, movie *domain.Movie) error {
	s.logger.DebugContext(ctx, "Executing Update movie transaction", slog.String("movieID", movie.ID))

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE movies SET slug = $1, title = $2, year_of_release = $3 WHERE id = $4`,
			movie.Slug, movie.Title, movie.YearOfRelease, movie.ID,
		)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrMovieNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM genres WHERE movie_id = $1`, movie.ID); err != nil {
			return err
		}
		return insertGenres(ctx, tx, movie.ID, movie.Genres)
	})
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "Movie updated successfully in DB", slog.String("movieID", movie.ID))
		return nil
	case errors.Is(err, ErrMovieNotFound):
		s.logger.WarnContext(ctx, "No movie found to update in DB", slog.String("movieID", movie.ID))
		return ErrMovieNotFound
	case isUniqueViolation(err):
		s.logger.WarnContext(ctx, "Update failed: slug already taken (DB constraint)", slog.String("movieID", movie.ID), slog.String("slug", movie.Slug))
		return ErrMovieAlreadyExists
	default:
		s.logger.ErrorContext(ctx, "Failed to update movie in DB", slog.String("movieID", movie.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update movie: %w", err)
	}
}

// Delete удаляет оценки, жанры и сам фильм в одной транзакции.
func (s *PostgresMovieStore) Delete(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ratings WHERE movie_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM genres WHERE movie_id = $1`, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		removed = rowsAffected > 0
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete movie from DB", slog.String("movieID", id), slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to delete movie: %w", err)
	}
	if !removed {
		s.logger.WarnContext(ctx, "No movie found to delete in DB", slog.String("movieID", id))
	}
	return removed, nil
}

// insertGenres вставляет все жанры одним запросом.
func insertGenres(ctx context.Context, tx *sqlx.Tx, movieID string, genres []string) error {
	if len(genres) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO genres (movie_id, name) SELECT $1, unnest($2::text[])`,
		movieID, pq.Array(genres),
	)
	return err
}
