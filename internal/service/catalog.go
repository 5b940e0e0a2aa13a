// catalog-service/internal/service/catalog.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"catalog-service/internal/domain"
	"catalog-service/internal/store"
	"catalog-service/internal/validation"

	"github.com/google/uuid"
)

// ListOptionsValidator проверяет параметры списка фильмов.
type ListOptionsValidator interface {
	Validate(ctx context.Context, opts domain.MovieListOptions) error
}

// CatalogService - бизнес-правила каталога поверх хранилищ.
// "Не найдено" возвращается как false, а не как ошибка.
type CatalogService struct {
	movies    store.MovieStore
	ratings   store.RatingStore
	validator ListOptionsValidator
	logger    *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(movies store.MovieStore, ratings store.RatingStore, v ListOptionsValidator, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		movies:    movies,
		ratings:   ratings,
		validator: v,
		logger:    logger,
	}
}

// CreateMovie назначает ID, вычисляет slug и сохраняет фильм.
func (s *CatalogService) CreateMovie(ctx context.Context, req domain.CreateMovieRequest) (*domain.Movie, error) {
	movie := &domain.Movie{
		ID:            uuid.NewString(),
		Title:         req.Title,
		YearOfRelease: req.YearOfRelease,
		Genres:        domain.NormalizeGenres(req.Genres),
	}
	movie.Slug = domain.Slugify(movie.Title, movie.YearOfRelease)

	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Movie created", slog.String("movieID", movie.ID), slog.String("slug", movie.Slug))
	return movie, nil
}

// GetMovie ищет фильм по ID, если idOrSlug - UUID, иначе по slug.
func (s *CatalogService) GetMovie(ctx context.Context, idOrSlug string, userID *string) (*domain.Movie, bool, error) {
	var (
		movie *domain.Movie
		err   error
	)
	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		movie, err = s.movies.GetByID(ctx, idOrSlug, userID)
	} else {
		movie, err = s.movies.GetBySlug(ctx, idOrSlug, userID)
	}
	if errors.Is(err, store.ErrMovieNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return movie, true, nil
}

// ListMovies проверяет параметры и возвращает страницу с общим количеством.
func (s *CatalogService) ListMovies(ctx context.Context, opts domain.MovieListOptions) (*domain.PageResult, error) {
	if err := s.validator.Validate(ctx, opts); err != nil {
		return nil, err
	}

	movies, total, err := s.movies.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &domain.PageResult{
		Items:    movies,
		Page:     opts.Page,
		PageSize: opts.PageSize,
		Total:    total,
	}, nil
}

// UpdateMovie заменяет данные фильма и возвращает его с актуальными оценками.
func (s *CatalogService) UpdateMovie(ctx context.Context, id string, req domain.UpdateMovieRequest, userID *string) (*domain.Movie, bool, error) {
	movie := &domain.Movie{
		ID:            id,
		Title:         req.Title,
		YearOfRelease: req.YearOfRelease,
		Genres:        domain.NormalizeGenres(req.Genres),
	}
	movie.Slug = domain.Slugify(movie.Title, movie.YearOfRelease)

	if err := s.movies.Update(ctx, movie); err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if userID == nil {
		rating, err := s.ratings.GetRating(ctx, id)
		if err != nil {
			return nil, false, err
		}
		movie.Rating = rating
		return movie, true, nil
	}

	rating, userRating, err := s.ratings.GetRatingWithUser(ctx, id, *userID)
	if err != nil {
		return nil, false, err
	}
	movie.Rating = rating
	movie.UserRating = userRating
	return movie, true, nil
}

// DeleteMovie удаляет фильм; false - если такого фильма не было.
func (s *CatalogService) DeleteMovie(ctx context.Context, id string) (bool, error) {
	return s.movies.Delete(ctx, id)
}

// RateMovie: сначала значение оценки, потом существование фильма, потом запись.
func (s *CatalogService) RateMovie(ctx context.Context, movieID string, rating int, userID string) (bool, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return false, err
	}

	exists, err := s.movies.ExistsByID(ctx, movieID)
	if err != nil {
		return false, fmt.Errorf("failed to check movie before rating: %w", err)
	}
	if !exists {
		s.logger.WarnContext(ctx, "Attempt to rate non-existent movie", slog.String("movieID", movieID))
		return false, nil
	}

	ok, err := s.ratings.Rate(ctx, movieID, rating, userID)
	if errors.Is(err, store.ErrMovieNotFound) {
		return false, nil
	}
	return ok, err
}

// DeleteRating удаляет оценку пользователя; false - если её не было.
func (s *CatalogService) DeleteRating(ctx context.Context, movieID, userID string) (bool, error) {
	return s.ratings.DeleteRating(ctx, movieID, userID)
}

// ListUserRatings возвращает все оценки пользователя.
func (s *CatalogService) ListUserRatings(ctx context.Context, userID string) ([]domain.MovieRating, error) {
	return s.ratings.ListForUser(ctx, userID)
}
