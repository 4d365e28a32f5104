package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/match"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type moveRepo interface {
	Set(ctx context.Context, board entity.Board, result tictactoe.Result) error
	GetByBoard(ctx context.Context, board entity.Board) (tictactoe.Result, error)
	DeleteByBoard(ctx context.Context, board entity.Board) error
}

type solver interface {
	Search(board entity.Board) (tictactoe.Result, error)
	BestMove(board entity.Board) (entity.Action, bool, error)
}

type matchRunner interface {
	Play(ctx context.Context, board entity.Board, x, o match.Player) (*match.Game, error)
}

// Analysis is everything the core can tell about one board.
type Analysis struct {
	Board    entity.Board    `json:"board"`
	Player   entity.Mark     `json:"player"`
	Actions  []entity.Action `json:"actions"`
	Winner   entity.Mark     `json:"winner"`
	Terminal bool            `json:"terminal"`
	Outcome  entity.Outcome  `json:"outcome"`
	Utility  *entity.Score   `json:"utility,omitempty"`
	BestMove *entity.Action  `json:"best_move,omitempty"`
}

type Engine struct {
	logger *slog.Logger

	moveRepo moveRepo
	solver   solver
	runner   matchRunner
}

// NewEngine wires the core. moveRepo may be nil, in which case every best move
// is searched.
func NewEngine(logger *slog.Logger, moveRepo moveRepo, solver solver, runner matchRunner) *Engine {
	return &Engine{
		logger: logger.With("component", "engine"),

		moveRepo: moveRepo,
		solver:   solver,
		runner:   runner,
	}
}

func (that *Engine) Analyze(ctx context.Context, board entity.Board) (*Analysis, error) {
	mover, err := entity.PlayerToMove(board)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze board: %w", err)
	}

	analysis := &Analysis{
		Board:    board,
		Player:   mover,
		Terminal: entity.Terminal(board),
		Outcome:  entity.GetOutcome(board),
	}
	analysis.Winner, _ = entity.Winner(board)
	analysis.Actions, _ = entity.Actions(board)

	if analysis.Terminal {
		utility, err := entity.Utility(board)
		if err != nil {
			return nil, fmt.Errorf("failed to score board: %w", err)
		}

		analysis.Utility = &utility

		return analysis, nil
	}

	result, err := that.BestMove(ctx, board)
	if err != nil {
		return nil, fmt.Errorf("failed to find best move: %w", err)
	}

	if result.Found {
		analysis.BestMove = result.Action
	}

	return analysis, nil
}

func (that *Engine) Apply(_ context.Context, board entity.Board, action entity.Action) (entity.Board, error) {
	next, err := entity.Apply(board, action)
	if err != nil {
		return board, fmt.Errorf("failed to apply action: %w", err)
	}

	return next, nil
}

// BestMove consults the cache before searching. Entries that cannot be decoded
// or do not fit the board are evicted. Cache failures are logged and never fail
// the call.
func (that *Engine) BestMove(ctx context.Context, board entity.Board) (tictactoe.Result, error) {
	log := that.logger.With("method", "BestMove", "board", board.String())

	if that.moveRepo != nil {
		cached, err := that.moveRepo.GetByBoard(ctx, board)
		switch {
		case err == nil && fitsBoard(board, cached):
			log.Debug("best move served from cache")
			return cached, nil
		case err == nil, errors.Is(err, repository.ErrCorruptMove):
			log.Warn("evicting unusable cache entry", "error", err)
			that.evict(ctx, board)
		case !errors.Is(err, repository.ErrMoveNotFound):
			log.Error("failed to read move cache", "error", err)
		}
	}

	result, err := that.solver.Search(board)
	if err != nil {
		return tictactoe.Result{}, fmt.Errorf("failed to search: %w", err)
	}

	if that.moveRepo != nil {
		if err = that.moveRepo.Set(ctx, board, result); err != nil {
			log.Error("failed to write move cache", "error", err)
		}
	}

	return result, nil
}

func (that *Engine) evict(ctx context.Context, board entity.Board) {
	err := that.moveRepo.DeleteByBoard(ctx, board)
	if err != nil && !errors.Is(err, repository.ErrMoveNotFound) {
		that.logger.Error("failed to evict cache entry", "board", board.String(), "error", err)
	}
}

// fitsBoard reports whether a cached result could have been searched from board:
// finished boards carry no action, open boards carry a legal one.
func fitsBoard(board entity.Board, result tictactoe.Result) bool {
	actions, ok := entity.Actions(board)
	if !ok {
		return !result.Found && result.Action == nil
	}

	return result.Found && result.Action != nil && slices.Contains(actions, *result.Action)
}

// SelfPlay plays the game out from board with the solver on both sides.
func (that *Engine) SelfPlay(ctx context.Context, board entity.Board) (*match.Game, error) {
	player := match.NewSolverPlayer(that.solver)

	game, err := that.runner.Play(ctx, board, player, player)
	if err != nil {
		return nil, fmt.Errorf("failed to play game: %w", err)
	}

	return game, nil
}
