package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Score is the value of a finished board from X's side.
type Score int

const (
	ScoreOWins Score = -1
	ScoreDraw  Score = 0
	ScoreXWins Score = 1
)

type Outcome string

const (
	InProgress Outcome = "in_progress"
	XWins      Outcome = "x_wins"
	OWins      Outcome = "o_wins"
	Draw       Outcome = "draw"
)

// Action targets the cell at Row, Col, both zero-based.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Action) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

func (that Action) inBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

// Actions lists the empty cells in row-major order. The second result is false
// when the board is terminal: there is nothing to play, not merely nothing left.
func Actions(board Board) ([]Action, bool) {
	if Terminal(board) {
		return nil, false
	}

	actions := make([]Action, 0, Size*Size)
	for i, row := range board {
		for j, cell := range row {
			if cell == Empty {
				actions = append(actions, Action{Row: i, Col: j})
			}
		}
	}

	return actions, true
}

// Apply returns a copy of board with the mover's mark placed at action.
func Apply(board Board, action Action) (Board, error) {
	if !action.inBounds() {
		return board, fmt.Errorf("%w: %s", apperror.ErrOutOfBounds, action)
	}

	if board[action.Row][action.Col] != Empty {
		return board, fmt.Errorf("%w: %s", apperror.ErrCellOccupied, action)
	}

	mark, err := PlayerToMove(board)
	if err != nil {
		return board, fmt.Errorf("failed to determine mover: %w", err)
	}

	next := board
	next[action.Row][action.Col] = mark

	return next, nil
}
