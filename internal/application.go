package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/match"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	solverOpts := []tictactoe.Option{tictactoe.WithLogger(logger)}
	if conf.Solver.Parallel {
		solverOpts = append(solverOpts, tictactoe.WithParallelRoot())
	}
	solver := tictactoe.NewSolver(solverOpts...)

	var engine *usecase.Engine
	if !conf.Solver.DisableCache {
		redisStorage, err := connectRedis(ctx, conf)
		if err != nil {
			return err
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		moveRepo := repository.NewMoveRepository(redisStorage.Connection, conf.Solver.CacheTTL)
		engine = usecase.NewEngine(logger, moveRepo, solver, match.NewRunner(logger))
	} else {
		log.Info("Move cache disabled")
		engine = usecase.NewEngine(logger, nil, solver, match.NewRunner(logger))
	}

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err := rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, engine)); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func connectRedis(ctx context.Context, conf *config.Config) (*storage.RedisStorage, error) {
	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return redisStorage, nil
}
