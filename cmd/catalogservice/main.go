// catalog-service/cmd/catalogservice/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpAPI "catalog-service/internal/api"
	"catalog-service/internal/config"
	grpcServer "catalog-service/internal/grpc"
	"catalog-service/internal/service"
	"catalog-service/internal/store"
	"catalog-service/internal/validation"
	"catalog-service/pkg/auth"
)

// stores - выбранная реализация хранилищ и функция освобождения ресурсов.
type stores struct {
	movies  store.MovieStore
	ratings store.RatingStore
	close   func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.StoreBackend == config.StoreBackendMemory {
		logger.Warn("Using in-memory store, data will be lost on restart")
		mem := store.NewMemoryStore(logger)
		return &stores{movies: mem, ratings: mem, close: func() {}}, nil
	}

	db, err := store.Connect(ctx, cfg.DBDriver, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close catalog PostgreSQL connection", slog.String("error", err.Error()))
		}
	}

	if cfg.InitSchema {
		if err := db.InitSchema(ctx); err != nil {
			closeDB()
			return nil, err
		}
	}

	movieStorage, err := store.NewPostgresMovieStore(db, logger)
	if err != nil {
		closeDB()
		return nil, fmt.Errorf("failed to initialize PostgreSQL movie store: %w", err)
	}
	ratingStorage, err := store.NewPostgresRatingStore(db, logger)
	if err != nil {
		closeDB()
		return nil, fmt.Errorf("failed to initialize PostgreSQL rating store: %w", err)
	}
	logger.Info("PostgreSQL stores initialized for catalog service.")
	return &stores{movies: movieStorage, ratings: ratingStorage, close: closeDB}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	validate := validator.New()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("Invalid catalog service configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := openStores(startupCtx, cfg, logger)
	cancelStartup()
	if err != nil {
		logger.Error("Catalog service failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.close()

	catalog := service.NewCatalogService(st.movies, st.ratings, validation.NewOptionsValidator(validate), logger)

	var tokens auth.TokenValidator
	if cfg.JWTSecret != "" {
		if tokens, err = auth.NewTokenValidator(cfg.JWTSecret); err != nil {
			logger.Error("Failed to initialize token validator", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// --- Настройка и запуск gRPC сервера ---
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		logger.Error("Failed to listen for catalog gRPC", slog.String("port", cfg.GRPCPort), slog.String("error", err.Error()))
		os.Exit(1)
	}
	grpcSrv := grpc.NewServer()
	grpcServer.RegisterMovieInterServiceServer(grpcSrv, grpcServer.NewServer(st.movies, logger))
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(grpcServer.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	go func() {
		logger.Info("Catalog gRPC server starting", slog.String("port", cfg.GRPCPort))
		if err := grpcSrv.Serve(lis); err != nil {
			logger.Error("Catalog gRPC server Serve() failed", slog.String("error", err.Error()))
		}
	}()

	// --- Настройка и запуск HTTP сервера ---
	handler := httpAPI.NewCatalogHandler(catalog, tokens, logger, validate)
	limiter := httpAPI.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      http.TimeoutHandler(httpAPI.NewRouter(handler, limiter), cfg.RequestTimeout, `{"error":"Request timed out"}`),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Catalog HTTP server starting", slog.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Catalog HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
		}
	}()

	// Ожидание сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Catalog service shutting down...")
	healthSrv.Shutdown()

	ctxHTTP, cancelHTTP := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelHTTP()
	if err := httpSrv.Shutdown(ctxHTTP); err != nil {
		logger.Error("Catalog HTTP Server Shutdown Failed", slog.String("error", err.Error()))
	} else {
		logger.Info("Catalog HTTP Server gracefully stopped.")
	}

	grpcSrv.GracefulStop()
	logger.Info("Catalog gRPC server gracefully stopped.")
}
