package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// Player chooses an action for the side to move on board.
type Player interface {
	ChooseAction(ctx context.Context, board entity.Board) (entity.Action, error)
}

type bestMover interface {
	BestMove(board entity.Board) (entity.Action, bool, error)
}

type solverPlayer struct {
	solver bestMover
}

// NewSolverPlayer plays the solver's optimal move.
func NewSolverPlayer(solver bestMover) Player {
	return &solverPlayer{solver: solver}
}

func (that *solverPlayer) ChooseAction(_ context.Context, board entity.Board) (entity.Action, error) {
	action, ok, err := that.solver.BestMove(board)
	if err != nil {
		return entity.Action{}, fmt.Errorf("solver failed: %w", err)
	}

	if !ok {
		return entity.Action{}, ErrNoAvailableMoves
	}

	return action, nil
}

type randomPlayer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomPlayer picks uniformly among legal actions. The seed makes a game reproducible.
func NewRandomPlayer(seed int64) Player {
	return &randomPlayer{rnd: rand.New(rand.NewSource(seed))} //nolint: gosec // it's ok
}

func (that *randomPlayer) ChooseAction(_ context.Context, board entity.Board) (entity.Action, error) {
	actions, ok := entity.Actions(board)
	if !ok || len(actions) == 0 {
		return entity.Action{}, ErrNoAvailableMoves
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return actions[that.rnd.Intn(len(actions))], nil
}
