// catalog-service/internal/api/router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter создает и настраивает HTTP маршрутизатор каталога.
// limiter может быть nil.
func NewRouter(handler *CatalogHandler, limiter *RateLimiter) *mux.Router {
	router := mux.NewRouter()
	if limiter != nil {
		router.Use(limiter.Middleware)
	}

	// Саб-роутер для /api префикса; токен читается для всех маршрутов, если он передан
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(handler.AuthMiddleware)

	// Эндпоинты для фильмов
	moviesRouter := apiRouter.PathPrefix("/movies").Subrouter()
	moviesRouter.Handle("", handler.RequireUser(handler.CreateMovie)).Methods(http.MethodPost)
	moviesRouter.HandleFunc("", handler.GetMovies).Methods(http.MethodGet)
	moviesRouter.HandleFunc("/{idOrSlug}", handler.GetMovie).Methods(http.MethodGet)
	moviesRouter.Handle("/{id}", handler.RequireUser(handler.UpdateMovie)).Methods(http.MethodPut)
	moviesRouter.Handle("/{id}", handler.RequireUser(handler.DeleteMovie)).Methods(http.MethodDelete)

	// Оценки
	moviesRouter.Handle("/{id}/ratings", handler.RequireUser(handler.RateMovie)).Methods(http.MethodPut)
	moviesRouter.Handle("/{id}/ratings", handler.RequireUser(handler.DeleteRating)).Methods(http.MethodDelete)
	apiRouter.Handle("/ratings/me", handler.RequireUser(handler.GetUserRatings)).Methods(http.MethodGet)

	return router
}
