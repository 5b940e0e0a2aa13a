package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		year  int
		want  string
	}{
		{"Inception", 2010, "inception-2010"},
		{"The Matrix", 1999, "the-matrix-1999"},
		{"The Matrix: Reloaded!", 2003, "the-matrix-reloaded-2003"},
		{"Spider-Man 2", 2004, "spider-man-2-2004"},
		{"Amélie", 2001, "amlie-2001"},
		{"under_score", 2020, "under_score-2020"},
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.title, tc.year))
		})
	}
}

func TestNormalizeGenres(t *testing.T) {
	got := NormalizeGenres([]string{" Action", "Sci-Fi", "Action", "", "  ", "Drama", "Sci-Fi"})
	assert.Equal(t, []string{"Action", "Sci-Fi", "Drama"}, got)

	assert.Empty(t, NormalizeGenres(nil))
	assert.NotNil(t, NormalizeGenres(nil))
}

func TestAverageRating(t *testing.T) {
	assert.Nil(t, AverageRating(nil))

	avg := AverageRating([]int{4, 5, 5})
	require.NotNil(t, avg)
	assert.Equal(t, 4.7, *avg)

	avg = AverageRating([]int{1, 2})
	require.NotNil(t, avg)
	assert.Equal(t, 1.5, *avg)

	avg = AverageRating([]int{3})
	require.NotNil(t, avg)
	assert.Equal(t, 3.0, *avg)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Violations: []FieldViolation{
		{Field: "PageSize", Message: "must be greater than or equal to 1"},
		{Field: "Page", Message: "must be greater than or equal to 1"},
	}}
	assert.Equal(t, "validation failed: PageSize: must be greater than or equal to 1; Page: must be greater than or equal to 1", err.Error())

	single := NewValidationError("Rating", "Rating must be between 1 and 5")
	require.Len(t, single.Violations, 1)
	assert.Equal(t, "Rating", single.Violations[0].Field)
}
