// catalog-service/internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"catalog-service/internal/domain"
	"catalog-service/internal/service"
	"catalog-service/internal/store"
	"catalog-service/pkg/auth"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// CatalogHandler содержит зависимости для HTTP обработчиков каталога
type CatalogHandler struct {
	catalog   *service.CatalogService
	tokens    auth.TokenValidator // nil - все запросы анонимные
	logger    *slog.Logger
	validator *validator.Validate
}

// NewCatalogHandler создает новый экземпляр CatalogHandler.
func NewCatalogHandler(c *service.CatalogService, tokens auth.TokenValidator, l *slog.Logger, v *validator.Validate) *CatalogHandler {
	return &CatalogHandler{
		catalog:   c,
		tokens:    tokens,
		logger:    l,
		validator: v,
	}
}

// --- Вспомогательные функции ---
func (h *CatalogHandler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h *CatalogHandler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, map[string]string{"error": message})
}

type validationResponse struct {
	Errors []domain.FieldViolation `json:"errors"`
}

func (h *CatalogHandler) respondValidation(w http.ResponseWriter, r *http.Request, violations []domain.FieldViolation) {
	h.respondJSON(w, r, http.StatusBadRequest, validationResponse{Errors: violations})
}

// respondServiceError переводит ошибки сервиса в HTTP-статусы.
func (h *CatalogHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.respondValidation(w, r, vErr.Violations)
	case errors.Is(err, store.ErrMovieAlreadyExists):
		h.respondError(w, r, http.StatusConflict, "A movie with this title and year already exists")
	default:
		h.logger.ErrorContext(r.Context(), message, slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		h.respondError(w, r, http.StatusInternalServerError, message)
	}
}

// decodeAndValidate читает JSON-тело и проверяет теги validator.
func (h *CatalogHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	if err := h.validator.StructCtx(r.Context(), dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			h.respondError(w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
			return false
		}
		violations := make([]domain.FieldViolation, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			violations = append(violations, domain.FieldViolation{Field: fe.Field(), Message: fe.Error()})
		}
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.String("error", err.Error()))
		h.respondValidation(w, r, violations)
		return false
	}
	return true
}

// movieIDVar достаёт {id} из пути; не-UUID считается несуществующим фильмом.
func (h *CatalogHandler) movieIDVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	movieID := mux.Vars(r)["id"]
	if _, err := uuid.Parse(movieID); err != nil {
		h.respondError(w, r, http.StatusNotFound, "Movie not found")
		return "", false
	}
	return movieID, true
}

// --- Обработчики ---

// CreateMovie обрабатывает запрос на создание нового фильма.
func (h *CatalogHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP CreateMovie request received", slog.String("path", r.URL.Path))

	var req domain.CreateMovieRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	movie, err := h.catalog.CreateMovie(ctx, req)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create movie")
		return
	}
	w.Header().Set("Location", "/api/movies/"+movie.ID)
	h.respondJSON(w, r, http.StatusCreated, movie)
}

// GetMovies возвращает страницу фильмов с фильтрами, сортировкой и общим количеством.
func (h *CatalogHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	queryParams := r.URL.Query()
	h.logger.InfoContext(ctx, "GetMovies endpoint hit", slog.String("query", queryParams.Encode()))

	opts, violations := listOptionsFromQuery(queryParams.Get)
	if len(violations) > 0 {
		h.respondValidation(w, r, violations)
		return
	}
	opts.UserID = userIDFromContext(ctx)

	page, err := h.catalog.ListMovies(ctx, opts)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve movies")
		return
	}

	response := struct {
		*domain.PageResult
		HasNextPage bool `json:"has_next_page"`
	}{
		PageResult:  page,
		HasNextPage: page.HasNextPage(),
	}
	h.logger.InfoContext(ctx, "Movies list retrieved successfully", slog.Int("count_returned", len(page.Items)), slog.Int("total_available", page.Total))
	h.respondJSON(w, r, http.StatusOK, response)
}

// listOptionsFromQuery собирает MovieListOptions из query-параметров.
// Нечисловые year/page/pageSize - ошибка формата, остальные правила проверяет сервис.
func listOptionsFromQuery(get func(string) string) (domain.MovieListOptions, []domain.FieldViolation) {
	opts := domain.MovieListOptions{
		Page:     domain.DefaultPage,
		PageSize: domain.DefaultPageSize,
	}
	var violations []domain.FieldViolation

	if title := strings.TrimSpace(get("title")); title != "" {
		opts.Title = &title
	}
	if raw := get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, domain.FieldViolation{Field: "YearOfRelease", Message: "must be a whole number"})
		} else {
			opts.YearOfRelease = &year
		}
	}
	opts.SortField, opts.SortOrder = domain.ParseSortBy(get("sortBy"))
	if raw := get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, domain.FieldViolation{Field: "Page", Message: "must be a whole number"})
		} else {
			opts.Page = page
		}
	}
	if raw := get("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, domain.FieldViolation{Field: "PageSize", Message: "must be a whole number"})
		} else {
			opts.PageSize = pageSize
		}
	}
	return opts, violations
}

// GetMovie ищет фильм по ID или slug.
func (h *CatalogHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idOrSlug := mux.Vars(r)["idOrSlug"]
	h.logger.InfoContext(ctx, "GetMovie endpoint hit", slog.String("idOrSlug", idOrSlug))

	movie, found, err := h.catalog.GetMovie(ctx, idOrSlug, userIDFromContext(ctx))
	if err != nil {
		h.respondServiceError(w, r, err, "Error finding movie")
		return
	}
	if !found {
		h.respondError(w, r, http.StatusNotFound, "Movie not found")
		return
	}
	h.respondJSON(w, r, http.StatusOK, movie)
}

// UpdateMovie заменяет название, год и жанры фильма.
func (h *CatalogHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID, ok := h.movieIDVar(w, r)
	if !ok {
		return
	}
	h.logger.InfoContext(ctx, "UpdateMovie endpoint hit", slog.String("movieID", movieID))

	var req domain.UpdateMovieRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	movie, found, err := h.catalog.UpdateMovie(ctx, movieID, req, userIDFromContext(ctx))
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update movie")
		return
	}
	if !found {
		h.respondError(w, r, http.StatusNotFound, "Movie not found")
		return
	}
	h.respondJSON(w, r, http.StatusOK, movie)
}

// DeleteMovie удаляет фильм вместе с жанрами и оценками.
func (h *CatalogHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID, ok := h.movieIDVar(w, r)
	if !ok {
		return
	}
	h.logger.InfoContext(ctx, "DeleteMovie endpoint hit", slog.String("movieID", movieID))

	removed, err := h.catalog.DeleteMovie(ctx, movieID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to delete movie")
		return
	}
	if !removed {
		h.respondError(w, r, http.StatusNotFound, "Movie not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RateMovie ставит или перезаписывает оценку текущего пользователя.
func (h *CatalogHandler) RateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID, ok := h.movieIDVar(w, r)
	if !ok {
		return
	}
	userID := userIDFromContext(ctx)
	h.logger.InfoContext(ctx, "RateMovie endpoint hit", slog.String("movieID", movieID), slog.String("userID", *userID))

	var req domain.RateMovieRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	rated, err := h.catalog.RateMovie(ctx, movieID, req.Rating, *userID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to rate movie")
		return
	}
	if !rated {
		h.respondError(w, r, http.StatusNotFound, "Movie not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteRating удаляет оценку текущего пользователя.
func (h *CatalogHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID, ok := h.movieIDVar(w, r)
	if !ok {
		return
	}
	userID := userIDFromContext(ctx)

	removed, err := h.catalog.DeleteRating(ctx, movieID, *userID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to delete rating")
		return
	}
	if !removed {
		h.respondError(w, r, http.StatusNotFound, "Rating not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetUserRatings возвращает все оценки текущего пользователя.
func (h *CatalogHandler) GetUserRatings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	ratings, err := h.catalog.ListUserRatings(ctx, *userID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve ratings")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{"items": ratings})
}
