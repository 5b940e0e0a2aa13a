// catalog-service/internal/grpc/client.go
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// MovieClient - клиент MovieInterService для сервисов, которые обращаются к каталогу.
type MovieClient struct {
	cc          grpc.ClientConnInterface
	logger      *slog.Logger
	callTimeout time.Duration
}

// NewMovieClient оборачивает уже установленное соединение.
func NewMovieClient(cc grpc.ClientConnInterface, logger *slog.Logger) *MovieClient {
	return &MovieClient{cc: cc, logger: logger, callTimeout: 3 * time.Second}
}

// CheckMovieExists вызывает gRPC метод CheckMovieExists.
func (c *MovieClient) CheckMovieExists(ctx context.Context, movieID string, opts ...grpc.CallOption) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(callCtx, checkMovieExistsMethod, wrapperspb.String(movieID), out, opts...); err != nil {
		c.logger.ErrorContext(ctx, "gRPC call to CheckMovieExists failed", slog.String("movie_id", movieID), slog.String("error", err.Error()))
		return false, fmt.Errorf("catalog CheckMovieExists failed: %w", err)
	}
	return out.GetValue(), nil
}

// GetMovieInfo возвращает сведения о фильме; (nil, nil), если фильма нет.
func (c *MovieClient) GetMovieInfo(ctx context.Context, movieID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	out := new(structpb.Struct)
	if err := c.cc.Invoke(callCtx, getMovieInfoMethod, wrapperspb.String(movieID), out, opts...); err != nil {
		if status.Code(err) == codes.NotFound {
			c.logger.InfoContext(ctx, "Movie not found via gRPC", slog.String("movie_id", movieID))
			return nil, nil
		}
		c.logger.ErrorContext(ctx, "gRPC call to GetMovieInfo failed", slog.String("movie_id", movieID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("catalog GetMovieInfo failed: %w", err)
	}
	return out, nil
}
