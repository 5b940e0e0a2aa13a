package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortBy(t *testing.T) {
	field, order := ParseSortBy("")
	assert.Nil(t, field)
	assert.Equal(t, SortUnsorted, order)

	field, order = ParseSortBy("-yearofrelease")
	require.NotNil(t, field)
	assert.Equal(t, "yearofrelease", *field)
	assert.Equal(t, SortDescending, order)

	field, order = ParseSortBy("+title")
	require.NotNil(t, field)
	assert.Equal(t, "title", *field)
	assert.Equal(t, SortAscending, order)

	field, order = ParseSortBy("title")
	require.NotNil(t, field)
	assert.Equal(t, "title", *field)
	assert.Equal(t, SortAscending, order)

	// Неизвестное поле не отбрасывается: его отклоняет валидатор.
	field, _ = ParseSortBy("director")
	require.NotNil(t, field)
	assert.Equal(t, "director", *field)
}

func TestMovieListOptionsOffset(t *testing.T) {
	assert.Equal(t, 0, MovieListOptions{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, MovieListOptions{Page: 3, PageSize: 10}.Offset())
	assert.Equal(t, 25, MovieListOptions{Page: 2, PageSize: 25}.Offset())
}

func TestPageResultHasNextPage(t *testing.T) {
	assert.True(t, PageResult{Page: 1, PageSize: 10, Total: 11}.HasNextPage())
	assert.False(t, PageResult{Page: 1, PageSize: 10, Total: 10}.HasNextPage())
	assert.False(t, PageResult{Page: 2, PageSize: 10, Total: 15}.HasNextPage())
	assert.False(t, PageResult{Page: 1, PageSize: 10, Total: 0}.HasNextPage())
}

func TestLastAllowedPageDoesNotOverflow(t *testing.T) {
	opts := MovieListOptions{Page: MaxPage, PageSize: MaxPageSize}
	assert.GreaterOrEqual(t, opts.Offset(), 0)
	assert.False(t, PageResult{Page: MaxPage, PageSize: MaxPageSize, Total: 3}.HasNextPage())
}
