package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var (
	ErrMoveNotFound = errors.New("move not found")
	ErrCorruptMove  = errors.New("cached move is corrupt")
)

// MoveRepository caches solved positions keyed by the board's text form.
type MoveRepository interface {
	Set(ctx context.Context, board entity.Board, result tictactoe.Result) error
	GetByBoard(ctx context.Context, board entity.Board) (tictactoe.Result, error)
	DeleteByBoard(ctx context.Context, board entity.Board) error
}

type dbMove struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMoveRepository stores entries for ttl; zero keeps them forever.
func NewMoveRepository(client *redis.Client, ttl time.Duration) MoveRepository {
	return &dbMove{
		client: client,
		ttl:    ttl,
	}
}

func moveKey(board entity.Board) string {
	return "move:" + board.String()
}

func (that *dbMove) Set(ctx context.Context, board entity.Board, result tictactoe.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal move: %w", err)
	}

	if err = that.client.Set(ctx, moveKey(board), resultJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set move: %w", err)
	}

	return nil
}

func (that *dbMove) GetByBoard(ctx context.Context, board entity.Board) (tictactoe.Result, error) {
	response, err := that.client.Get(ctx, moveKey(board)).Result()

	if errors.Is(err, redis.Nil) {
		return tictactoe.Result{}, ErrMoveNotFound
	}

	if err != nil {
		return tictactoe.Result{}, fmt.Errorf("%w by board", err)
	}

	var result tictactoe.Result
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return tictactoe.Result{}, fmt.Errorf("%w: %w", ErrCorruptMove, err)
	}

	return result, nil
}

func (that *dbMove) DeleteByBoard(ctx context.Context, board entity.Board) error {
	deleted, err := that.client.Del(ctx, moveKey(board)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete move by board: %w", err)
	}

	if deleted == 0 {
		return ErrMoveNotFound
	}

	return nil
}
