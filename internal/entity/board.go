package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const Size = 3

// Mark is the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

// WinCombos lists every line as (row, col) triples: rows, then columns, then
// the primary diagonal and the anti-diagonal. Winner scans them in this order.
var WinCombos = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark. Empty stays Empty.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X", "x":
		*m = X
	case "O", "o":
		*m = O
	case "", ".", "-", " ":
		*m = Empty
	default:
		return fmt.Errorf("%w: unknown mark %q", apperror.ErrMalformedBoard, text)
	}

	return nil
}

// Board is a 3x3 grid stored row-major. It is a value: copying a Board copies
// every cell, so no operation here ever changes a caller's board.
type Board [Size][Size]Mark

// InitialState returns the empty board.
func InitialState() Board {
	return Board{}
}

// ParseBoard reads the nine-character row-major text form produced by
// Board.String. Empty cells may be written as '.', '-' or ' '.
func ParseBoard(s string) (Board, error) {
	var board Board

	if len(s) != Size*Size {
		return board, fmt.Errorf("%w: want %d cells, got %d", apperror.ErrMalformedBoard, Size*Size, len(s))
	}

	for i := 0; i < len(s); i++ {
		if err := board[i/Size][i%Size].UnmarshalText([]byte{s[i]}); err != nil {
			return Board{}, fmt.Errorf("cell %d: %w", i, err)
		}
	}

	return board, nil
}

func (that Board) String() string {
	var sb strings.Builder
	sb.Grow(Size * Size)

	for _, row := range that {
		for _, cell := range row {
			if cell == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(cell.String())
		}
	}

	return sb.String()
}

func (that Board) count(mark Mark) int {
	n := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				n++
			}
		}
	}

	return n
}

// PlayerToMove returns X when both sides have the same number of marks and O
// when X is one ahead. Any other count cannot arise from alternating play.
func PlayerToMove(board Board) (Mark, error) {
	xCount, oCount := board.count(X), board.count(O)

	switch xCount - oCount {
	case 0:
		return X, nil
	case 1:
		return O, nil
	default:
		return Empty, fmt.Errorf("%w: %d X against %d O", apperror.ErrInvalidBoard, xCount, oCount)
	}
}

// Winner reports the mark owning the first complete line in WinCombos order.
func Winner(board Board) (Mark, bool) {
	for _, combo := range WinCombos {
		a := board[combo[0][0]][combo[0][1]]
		b := board[combo[1][0]][combo[1][1]]
		c := board[combo[2][0]][combo[2][1]]

		if a != Empty && a == b && b == c {
			return a, true
		}
	}

	return Empty, false
}

// Terminal reports whether the game is over: somebody won or no cell is left.
func Terminal(board Board) bool {
	if _, ok := Winner(board); ok {
		return true
	}

	return board.count(Empty) == 0
}

// Utility scores a finished board from X's side: +1, -1 or 0 for a draw.
func Utility(board Board) (Score, error) {
	if !Terminal(board) {
		return 0, apperror.ErrInvalidState
	}

	winner, _ := Winner(board)
	switch winner {
	case X:
		return ScoreXWins, nil
	case O:
		return ScoreOWins, nil
	default:
		return ScoreDraw, nil
	}
}

// GetOutcome classifies the board.
func GetOutcome(board Board) Outcome {
	if winner, ok := Winner(board); ok {
		if winner == X {
			return XWins
		}
		return OWins
	}

	if Terminal(board) {
		return Draw
	}

	return InProgress
}
