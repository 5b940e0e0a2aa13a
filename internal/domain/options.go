// catalog-service/internal/domain/options.go
package domain

import (
	"math"
	"strings"
)

// SortOrder - направление сортировки списка фильмов
type SortOrder int

const (
	SortUnsorted SortOrder = iota
	SortAscending
	SortDescending
)

// Допустимые поля сортировки
const (
	SortFieldTitle         = "title"
	SortFieldYearOfRelease = "yearofrelease"
)

// SortFields - allow-list полей сортировки в порядке, в котором их показываем пользователю.
var SortFields = []string{SortFieldTitle, SortFieldYearOfRelease}

// MovieListOptions - нормализованный запрос списка фильмов.
// nil-фильтр означает "без ограничения".
type MovieListOptions struct {
	Title         *string
	YearOfRelease *int
	SortField     *string
	SortOrder     SortOrder
	Page          int
	PageSize      int
	UserID        *string
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 25
	// MaxPage - верхняя граница номера страницы: Page*PageSize не переполняет int.
	MaxPage         = math.MaxInt / MaxPageSize
)

// ParseSortBy разбирает "sortBy" в виде "title", "+title" или "-yearofrelease".
func ParseSortBy(sortBy string) (*string, SortOrder) {
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		return nil, SortUnsorted
	}
	order := SortAscending
	if strings.HasPrefix(sortBy, "-") {
		order = SortDescending
	}
	field := strings.Trim(sortBy, "+-")
	return &field, order
}

// Offset - смещение первой строки страницы (page начинается с 1).
func (o MovieListOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// PageResult - страница фильмов и общее число подходящих под фильтр записей.
type PageResult struct {
	Items    []*Movie `json:"items"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	Total    int      `json:"total"`
}

func (p PageResult) HasNextPage() bool {
	return p.Total > p.Page*p.PageSize
}
