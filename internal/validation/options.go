// catalog-service/internal/validation/options.go
package validation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"catalog-service/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Теги правил для MovieListOptions. Каждое правило сообщается отдельно.
const (
	tagYearNotInFuture = "year_not_in_future"
	tagSortField       = "sort_field"
	tagPageSizeMin     = "page_size_min"
	tagPageSizeRange   = "page_size_range"
	tagPageMin         = "page_min"
	tagPageMax         = "page_max"
)

// OptionsValidator проверяет параметры списка фильмов до обращения к хранилищу.
type OptionsValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewOptionsValidator регистрирует struct-level правила на переданном валидаторе.
func NewOptionsValidator(v *validator.Validate) *OptionsValidator {
	o := &OptionsValidator{validate: v, now: time.Now}
	v.RegisterStructValidation(o.validateListOptions, domain.MovieListOptions{})
	return o
}

// WithClock подменяет источник текущего времени (для тестов).
func (o *OptionsValidator) WithClock(now func() time.Time) *OptionsValidator {
	o.now = now
	return o
}

// Validate возвращает nil или *domain.ValidationError со всеми нарушениями.
func (o *OptionsValidator) Validate(ctx context.Context, opts domain.MovieListOptions) error {
	err := o.validate.StructCtx(ctx, opts)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate list options: %w", err)
	}
	result := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		result.Violations = append(result.Violations, domain.FieldViolation{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return result
}

func (o *OptionsValidator) validateListOptions(sl validator.StructLevel) {
	opts := sl.Current().Interface().(domain.MovieListOptions)

	if opts.YearOfRelease != nil {
		currentYear := o.now().UTC().Year()
		if *opts.YearOfRelease > currentYear {
			sl.ReportError(*opts.YearOfRelease, "YearOfRelease", "YearOfRelease", tagYearNotInFuture, strconv.Itoa(currentYear))
		}
	}

	if opts.SortField != nil && !isSortField(*opts.SortField) {
		sl.ReportError(*opts.SortField, "SortField", "SortField", tagSortField, strings.Join(domain.SortFields, " "))
	}

	// Оба правила для PageSize проверяются независимо.
	if opts.PageSize < 1 {
		sl.ReportError(opts.PageSize, "PageSize", "PageSize", tagPageSizeMin, "1")
	}
	if opts.PageSize < 1 || opts.PageSize > domain.MaxPageSize {
		sl.ReportError(opts.PageSize, "PageSize", "PageSize", tagPageSizeRange, strconv.Itoa(domain.MaxPageSize))
	}

	if opts.Page < 1 {
		sl.ReportError(opts.Page, "Page", "Page", tagPageMin, "1")
	}
	if opts.Page > domain.MaxPage {
		sl.ReportError(opts.Page, "Page", "Page", tagPageMax, strconv.Itoa(domain.MaxPage))
	}
}

func isSortField(field string) bool {
	for _, allowed := range domain.SortFields {
		if strings.EqualFold(field, allowed) {
			return true
		}
	}
	return false
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case tagYearNotInFuture:
		return "must be less than or equal to " + fe.Param()
	case tagSortField:
		return "You can only sort by 'title' or 'yearofrelease'"
	case tagPageSizeMin, tagPageMin:
		return "must be greater than or equal to 1"
	case tagPageMax:
		return "must be less than or equal to " + fe.Param()
	case tagPageSizeRange:
		return "You can get between 1 and 25 movies per page"
	default:
		return fe.Error()
	}
}

// ValidateRating проверяет значение оценки (1..5).
func ValidateRating(rating int) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return domain.NewValidationError("Rating", "Rating must be between 1 and 5")
	}
	return nil
}
