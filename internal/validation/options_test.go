package validation

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"catalog-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *OptionsValidator {
	fixed := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	return NewOptionsValidator(validator.New()).WithClock(func() time.Time { return fixed })
}

func validOptions() domain.MovieListOptions {
	return domain.MovieListOptions{Page: 1, PageSize: 10}
}

func violationsOf(t *testing.T, err error) []domain.FieldViolation {
	t.Helper()
	require.Error(t, err)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr.Violations
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, newTestValidator().Validate(context.Background(), validOptions()))
}

func TestValidateRejectsUnknownSortField(t *testing.T) {
	opts := validOptions()
	opts.SortField, opts.SortOrder = domain.ParseSortBy("director")

	violations := violationsOf(t, newTestValidator().Validate(context.Background(), opts))
	require.Len(t, violations, 1)
	assert.Equal(t, "SortField", violations[0].Field)
	assert.Equal(t, "You can only sort by 'title' or 'yearofrelease'", violations[0].Message)
}

func TestValidateAcceptsDescendingYearSort(t *testing.T) {
	opts := validOptions()
	opts.SortField, opts.SortOrder = domain.ParseSortBy("-yearofrelease")

	require.NoError(t, newTestValidator().Validate(context.Background(), opts))
	assert.Equal(t, domain.SortDescending, opts.SortOrder)
}

func TestValidateSortFieldIsCaseInsensitive(t *testing.T) {
	opts := validOptions()
	opts.SortField, opts.SortOrder = domain.ParseSortBy("Title")
	assert.NoError(t, newTestValidator().Validate(context.Background(), opts))
}

func TestValidateRejectsFutureYear(t *testing.T) {
	opts := validOptions()
	year := 2025
	opts.YearOfRelease = &year

	violations := violationsOf(t, newTestValidator().Validate(context.Background(), opts))
	require.Len(t, violations, 1)
	assert.Equal(t, "YearOfRelease", violations[0].Field)
	assert.Equal(t, "must be less than or equal to 2024", violations[0].Message)

	year = 2024
	assert.NoError(t, newTestValidator().Validate(context.Background(), opts))
}

func TestValidatePageSizeZeroReportsBothRules(t *testing.T) {
	opts := validOptions()
	opts.PageSize = 0

	violations := violationsOf(t, newTestValidator().Validate(context.Background(), opts))
	require.Len(t, violations, 2)
	assert.Equal(t, "PageSize", violations[0].Field)
	assert.Equal(t, "must be greater than or equal to 1", violations[0].Message)
	assert.Equal(t, "PageSize", violations[1].Field)
	assert.Equal(t, "You can get between 1 and 25 movies per page", violations[1].Message)
}

func TestValidatePageSizeAboveMaximum(t *testing.T) {
	opts := validOptions()
	opts.PageSize = 30

	violations := violationsOf(t, newTestValidator().Validate(context.Background(), opts))
	require.Len(t, violations, 1)
	assert.Equal(t, "You can get between 1 and 25 movies per page", violations[0].Message)

	opts.PageSize = 25
	assert.NoError(t, newTestValidator().Validate(context.Background(), opts))
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	year := 3000
	sortField := "director"
	opts := domain.MovieListOptions{YearOfRelease: &year, SortField: &sortField, Page: 0, PageSize: 0}

	violations := violationsOf(t, newTestValidator().Validate(context.Background(), opts))
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"YearOfRelease", "SortField", "PageSize", "PageSize", "Page"}, fields)
}

func TestValidateRating(t *testing.T) {
	for _, v := range []int{1, 3, 5} {
		assert.NoError(t, ValidateRating(v))
	}
	for _, v := range []int{0, 6, -1} {
		err := ValidateRating(v)
		violations := violationsOf(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, "Rating", violations[0].Field)
	}
}

func TestValidateRejectsPageBeyondMaximum(t *testing.T) {
	opts := validOptions()
	opts.Page = math.MaxInt

	violations := violationsOf(t, newTestValidator().Validate(context.Background(), opts))
	require.Len(t, violations, 1)
	assert.Equal(t, "Page", violations[0].Field)
	assert.Equal(t, "must be less than or equal to "+strconv.Itoa(domain.MaxPage), violations[0].Message)

	opts.Page = domain.MaxPage
	assert.NoError(t, newTestValidator().Validate(context.Background(), opts))
}
