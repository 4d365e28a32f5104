package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrIllegalAction = errors.New("player chose an illegal action")

// Game records one finished game. Boards[0] is the starting board and
// Boards[i+1] is the board after Actions[i].
type Game struct {
	ID      string          `json:"id"`
	Boards  []entity.Board  `json:"boards"`
	Actions []entity.Action `json:"actions"`
	Outcome entity.Outcome  `json:"outcome"`
}

// Runner drives two players from a board until the game ends.
type Runner struct {
	logger *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger.With("component", "match")}
}

// Play alternates x and o starting from board. Each chosen action is checked
// against entity.Actions before it is applied.
func (that *Runner) Play(ctx context.Context, board entity.Board, x, o Player) (*Game, error) {
	game := &Game{
		ID:     uuid.NewString(),
		Boards: []entity.Board{board},
	}

	log := that.logger.With("method", "Play", "game_id", game.ID)

	// a malformed board may already look finished
	if _, err := entity.PlayerToMove(board); err != nil {
		return nil, fmt.Errorf("failed to determine mover: %w", err)
	}

	for {
		actions, ok := entity.Actions(board)
		if !ok {
			break
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("game %s interrupted: %w", game.ID, err)
		}

		mover, err := entity.PlayerToMove(board)
		if err != nil {
			return nil, fmt.Errorf("failed to determine mover: %w", err)
		}

		player := x
		if mover == entity.O {
			player = o
		}

		action, err := player.ChooseAction(ctx, board)
		if err != nil {
			return nil, fmt.Errorf("player %s failed to choose: %w", mover, err)
		}

		if !slices.Contains(actions, action) {
			return nil, fmt.Errorf("%w: %s by %s", ErrIllegalAction, action, mover)
		}

		board, err = entity.Apply(board, action)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", action, err)
		}

		log.Debug("turn played", "mover", mover.String(), "action", action.String(), "board", board.String())

		game.Actions = append(game.Actions, action)
		game.Boards = append(game.Boards, board)
	}

	game.Outcome = entity.GetOutcome(board)
	log.Info("game finished", "outcome", game.Outcome, "turns", len(game.Actions))

	return game, nil
}
