// catalog-service/internal/domain/movie.go
package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Movie представляет основную доменную модель фильма
type Movie struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	YearOfRelease int      `json:"year_of_release"`
	Genres        []string `json:"genres"`
	Rating        *float64 `json:"rating,omitempty"`      // Средняя оценка, nil если оценок нет
	UserRating    *int     `json:"user_rating,omitempty"` // Оценка текущего пользователя
}

// CreateMovieRequest определяет тело запроса для создания нового фильма
type CreateMovieRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=255"`
	YearOfRelease int      `json:"year_of_release" validate:"required,gte=1888,lte=2100"`
	Genres        []string `json:"genres" validate:"required,min=1,dive,required,max=50"`
}

// UpdateMovieRequest заменяет название, год и жанры целиком
type UpdateMovieRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=255"`
	YearOfRelease int      `json:"year_of_release" validate:"required,gte=1888,lte=2100"`
	Genres        []string `json:"genres" validate:"required,min=1,dive,required,max=50"`
}

var slugUnsafe = regexp.MustCompile(`[^0-9a-z _-]`)

// Slugify строит slug из названия и года: "The Matrix", 1999 -> "the-matrix-1999".
func Slugify(title string, year int) string {
	s := slugUnsafe.ReplaceAllString(strings.ToLower(title), "")
	s = strings.ReplaceAll(s, " ", "-")
	return s + "-" + strconv.Itoa(year)
}

// NormalizeGenres убирает дубликаты, сохраняя порядок первого вхождения.
func NormalizeGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
