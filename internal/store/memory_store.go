package store

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"catalog-service/internal/domain"
)

type memoryMovie struct {
	id     string
	slug   string
	title  string
	year   int
	genres []string
}

type ratingKey struct {
	movieID string
	userID  string
}

// MemoryStore - in-memory реализация MovieStore и RatingStore для тестов и локального запуска.
// Фильтры, пагинация и итоговое количество совпадают с PostgreSQL-хранилищем.
// Названия сравниваются без учёта регистра; порядок по правилам collation БД может отличаться.
type MemoryStore struct {
	mu      sync.RWMutex
	movies  map[string]*memoryMovie
	slugs   map[string]string // slug -> id
	ratings map[ratingKey]int
	logger  *slog.Logger
}

// NewMemoryStore создает пустое хранилище.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		movies:  make(map[string]*memoryMovie),
		slugs:   make(map[string]string),
		ratings: make(map[ratingKey]int),
		logger:  logger,
	}
}

func (m *MemoryStore) Create(ctx context.Context, movie *domain.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.slugs[movie.Slug]; exists {
		return ErrMovieAlreadyExists
	}
	if _, exists := m.movies[movie.ID]; exists {
		return ErrMovieAlreadyExists
	}
	m.movies[movie.ID] = &memoryMovie{
		id:     movie.ID,
		slug:   movie.Slug,
		title:  movie.Title,
		year:   movie.YearOfRelease,
		genres: append([]string(nil), movie.Genres...),
	}
	m.slugs[movie.Slug] = movie.ID
	m.logger.DebugContext(ctx, "Movie created in memory store", slog.String("movieID", movie.ID))
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string, userID *string) (*domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	mm, ok := m.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	return m.toDomainLocked(mm, userID), nil
}

func (m *MemoryStore) GetBySlug(ctx context.Context, slug string, userID *string) (*domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugs[slug]
	if !ok {
		return nil, ErrMovieNotFound
	}
	return m.toDomainLocked(m.movies[id], userID), nil
}

func (m *MemoryStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.movies[id]
	return ok, nil
}

func (m *MemoryStore) List(ctx context.Context, opts domain.MovieListOptions) ([]*domain.Movie, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	var sortField string
	if opts.SortField != nil {
		sortField = strings.ToLower(*opts.SortField)
		if _, ok := sortColumns[sortField]; !ok {
			return nil, 0, ErrUnsupportedSortField
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var filtered []*memoryMovie
	for _, mm := range m.movies {
		if opts.Title != nil && !strings.Contains(strings.ToLower(mm.title), strings.ToLower(*opts.Title)) {
			continue
		}
		if opts.YearOfRelease != nil && mm.year != *opts.YearOfRelease {
			continue
		}
		filtered = append(filtered, mm)
	}

	desc := opts.SortOrder == domain.SortDescending
	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		aTitle, bTitle := strings.ToLower(a.title), strings.ToLower(b.title)
		switch {
		case sortField == domain.SortFieldTitle && aTitle != bTitle:
			return (aTitle < bTitle) != desc
		case sortField == domain.SortFieldYearOfRelease && a.year != b.year:
			return (a.year < b.year) != desc
		}
		return a.id < b.id
	})

	totalCount := len(filtered)
	start := opts.Offset()
	if start < 0 || start >= totalCount {
		return []*domain.Movie{}, totalCount, nil
	}
	end := start + opts.PageSize
	if end > totalCount {
		end = totalCount
	}

	page := make([]*domain.Movie, 0, end-start)
	for _, mm := range filtered[start:end] {
		page = append(page, m.toDomainLocked(mm, opts.UserID))
	}
	return page, totalCount, nil
}

func (m *MemoryStore) Update(ctx context.Context, movie *domain.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	mm, ok := m.movies[movie.ID]
	if !ok {
		return ErrMovieNotFound
	}
	if ownerID, taken := m.slugs[movie.Slug]; taken && ownerID != movie.ID {
		return ErrMovieAlreadyExists
	}
	delete(m.slugs, mm.slug)
	mm.slug = movie.Slug
	mm.title = movie.Title
	mm.year = movie.YearOfRelease
	mm.genres = append([]string(nil), movie.Genres...)
	m.slugs[mm.slug] = mm.id
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	mm, ok := m.movies[id]
	if !ok {
		return false, nil
	}
	for key := range m.ratings {
		if key.movieID == id {
			delete(m.ratings, key)
		}
	}
	delete(m.slugs, mm.slug)
	delete(m.movies, id)
	return true, nil
}

func (m *MemoryStore) Rate(ctx context.Context, movieID string, rating int, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.movies[movieID]; !ok {
		return false, ErrMovieNotFound
	}
	m.ratings[ratingKey{movieID: movieID, userID: userID}] = rating
	return true, nil
}

func (m *MemoryStore) GetRating(ctx context.Context, movieID string) (*float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.averageLocked(movieID), nil
}

func (m *MemoryStore) GetRatingWithUser(ctx context.Context, movieID, userID string) (*float64, *int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.averageLocked(movieID), m.userRatingLocked(movieID, &userID), nil
}

func (m *MemoryStore) DeleteRating(ctx context.Context, movieID, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := ratingKey{movieID: movieID, userID: userID}
	if _, ok := m.ratings[key]; !ok {
		return false, nil
	}
	delete(m.ratings, key)
	return true, nil
}

func (m *MemoryStore) ListForUser(ctx context.Context, userID string) ([]domain.MovieRating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ratings := []domain.MovieRating{}
	for key, value := range m.ratings {
		if key.userID != userID {
			continue
		}
		ratings = append(ratings, domain.MovieRating{
			MovieID: key.movieID,
			Slug:    m.movies[key.movieID].slug,
			Rating:  value,
		})
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].MovieID < ratings[j].MovieID })
	return ratings, nil
}

func (m *MemoryStore) toDomainLocked(mm *memoryMovie, userID *string) *domain.Movie {
	return &domain.Movie{
		ID:            mm.id,
		Slug:          mm.slug,
		Title:         mm.title,
		YearOfRelease: mm.year,
		Genres:        domain.NormalizeGenres(mm.genres),
		Rating:        m.averageLocked(mm.id),
		UserRating:    m.userRatingLocked(mm.id, userID),
	}
}

func (m *MemoryStore) averageLocked(movieID string) *float64 {
	var values []int
	for key, value := range m.ratings {
		if key.movieID == movieID {
			values = append(values, value)
		}
	}
	return domain.AverageRating(values)
}

func (m *MemoryStore) userRatingLocked(movieID string, userID *string) *int {
	if userID == nil {
		return nil
	}
	value, ok := m.ratings[ratingKey{movieID: movieID, userID: *userID}]
	if !ok {
		return nil
	}
	return &value
}
