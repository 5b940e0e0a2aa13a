package store

import (
	"context"

	"catalog-service/internal/domain"
)

// MovieStore определяет интерфейс для операций с фильмами и их жанрами.
// userID в чтениях опционален: без него UserRating всегда nil.
type MovieStore interface {
	Create(ctx context.Context, movie *domain.Movie) error
	GetByID(ctx context.Context, id string, userID *string) (*domain.Movie, error)
	GetBySlug(ctx context.Context, slug string, userID *string) (*domain.Movie, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	// List возвращает страницу и общее число записей под фильтр (без учёта пагинации).
	List(ctx context.Context, opts domain.MovieListOptions) ([]*domain.Movie, int, error)
	Update(ctx context.Context, movie *domain.Movie) error
	// Delete удаляет фильм вместе с жанрами и оценками; false - если удалять было нечего.
	Delete(ctx context.Context, id string) (bool, error)
}

// RatingStore определяет интерфейс для оценок пользователей.
type RatingStore interface {
	// Rate вставляет или перезаписывает оценку пользователя одной атомарной операцией.
	Rate(ctx context.Context, movieID string, rating int, userID string) (bool, error)
	GetRating(ctx context.Context, movieID string) (*float64, error)
	GetRatingWithUser(ctx context.Context, movieID, userID string) (*float64, *int, error)
	DeleteRating(ctx context.Context, movieID, userID string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]domain.MovieRating, error)
}
