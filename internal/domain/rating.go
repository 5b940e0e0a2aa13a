// catalog-service/internal/domain/rating.go
package domain

import "math"

const (
	MinRating = 1
	MaxRating = 5
)

// MovieRating - оценка пользователя для конкретного фильма (для "мои оценки")
type MovieRating struct {
	MovieID string `json:"movie_id" db:"movie_id"`
	Slug    string `json:"slug" db:"slug"`
	Rating  int    `json:"rating" db:"rating"`
}

// RateMovieRequest определяет тело запроса для оценки фильма.
// Диапазон проверяется в сервисе, чтобы правило было одно для всех транспортов.
type RateMovieRequest struct {
	Rating int `json:"rating"`
}

// AverageRating считает среднее, округлённое до одного знака. nil - если оценок нет.
func AverageRating(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	avg := math.Round(float64(sum)/float64(len(values))*10) / 10
	return &avg
}
