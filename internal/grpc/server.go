// catalog-service/internal/grpc/server.go
package grpc

import (
	"context"
	"errors"
	"log/slog"

	"catalog-service/internal/domain"
	"catalog-service/internal/store"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Server реализует MovieInterServiceServer поверх MovieStore.
type Server struct {
	store  store.MovieStore
	logger *slog.Logger
}

var _ MovieInterServiceServer = (*Server)(nil)

// NewServer создает новый экземпляр gRPC сервера каталога.
func NewServer(movieStore store.MovieStore, logger *slog.Logger) *Server {
	return &Server{
		store:  movieStore,
		logger: logger,
	}
}

func validateMovieID(movieID string) error {
	if movieID == "" {
		return status.Errorf(codes.InvalidArgument, "movie_id cannot be empty")
	}
	if _, err := uuid.Parse(movieID); err != nil {
		return status.Errorf(codes.InvalidArgument, "movie_id must be a UUID")
	}
	return nil
}

// movieToStruct преобразует фильм в google.protobuf.Struct
func movieToStruct(movie *domain.Movie) (*structpb.Struct, error) {
	genres := make([]interface{}, 0, len(movie.Genres))
	for _, g := range movie.Genres {
		genres = append(genres, g)
	}
	fields := map[string]interface{}{
		"id":              movie.ID,
		"slug":            movie.Slug,
		"title":           movie.Title,
		"year_of_release": movie.YearOfRelease,
		"genres":          genres,
		"rating":          nil,
	}
	if movie.Rating != nil {
		fields["rating"] = *movie.Rating
	}
	return structpb.NewStruct(fields)
}

// GetMovieInfo реализует gRPC метод GetMovieInfo.
func (s *Server) GetMovieInfo(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	movieID := req.GetValue()
	s.logger.InfoContext(ctx, "gRPC GetMovieInfo called", slog.String("movie_id", movieID))

	if err := validateMovieID(movieID); err != nil {
		s.logger.WarnContext(ctx, "gRPC GetMovieInfo called with invalid movie_id", slog.String("movie_id", movieID))
		return nil, err
	}

	movie, err := s.store.GetByID(ctx, movieID, nil)
	if err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			s.logger.WarnContext(ctx, "Movie not found by ID for GetMovieInfo", slog.String("movie_id", movieID))
			return nil, status.Errorf(codes.NotFound, "movie not found with ID %s", movieID)
		}
		s.logger.ErrorContext(ctx, "Failed to get movie by ID from store for GetMovieInfo", slog.String("movie_id", movieID), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to retrieve movie details: %v", err)
	}

	info, err := movieToStruct(movie)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode movie details: %v", err)
	}
	return info, nil
}

// CheckMovieExists реализует gRPC метод CheckMovieExists.
func (s *Server) CheckMovieExists(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	movieID := req.GetValue()
	s.logger.InfoContext(ctx, "gRPC CheckMovieExists called", slog.String("movie_id", movieID))

	if err := validateMovieID(movieID); err != nil {
		s.logger.WarnContext(ctx, "gRPC CheckMovieExists called with invalid movie_id", slog.String("movie_id", movieID))
		return nil, err
	}

	exists, err := s.store.ExistsByID(ctx, movieID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check movie existence from store", slog.String("movie_id", movieID), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to check movie existence: %v", err)
	}
	return wrapperspb.Bool(exists), nil
}
