package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Board {
	t.Helper()

	board, err := ParseBoard(s)
	require.NoError(t, err)

	return board
}

func TestInitialState(t *testing.T) {
	// Given: the initial board
	board := InitialState()

	// When: inspecting it
	mover, err := PlayerToMove(board)
	require.NoError(t, err)
	actions, ok := Actions(board)

	// Then: X moves first, every cell is playable and the game is not over
	assert.Equal(t, X, mover)
	assert.True(t, ok)
	assert.Len(t, actions, 9)
	assert.Equal(t, Action{Row: 0, Col: 0}, actions[0])
	assert.Equal(t, Action{Row: 2, Col: 2}, actions[8])
	assert.False(t, Terminal(board))
	assert.Equal(t, InProgress, GetOutcome(board))
}

func TestPlayerToMove(t *testing.T) {
	t.Run("Returns O when X is one mark ahead", func(t *testing.T) {
		// Given: X has played once
		board := mustParse(t, "X........")

		// When: asking whose turn it is
		mover, err := PlayerToMove(board)

		// Then: it is O
		require.NoError(t, err)
		assert.Equal(t, O, mover)
	})

	t.Run("Returns X when counts are level", func(t *testing.T) {
		board := mustParse(t, "XO.......")

		mover, err := PlayerToMove(board)

		require.NoError(t, err)
		assert.Equal(t, X, mover)
	})

	t.Run("Returns ErrInvalidBoard when O is ahead", func(t *testing.T) {
		// Given: a board O could never reach
		board := mustParse(t, "O........")

		// When: asking whose turn it is
		_, err := PlayerToMove(board)

		// Then: the board is rejected
		assert.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})

	t.Run("Returns ErrInvalidBoard when X is two ahead", func(t *testing.T) {
		board := mustParse(t, "XX.......")

		_, err := PlayerToMove(board)

		assert.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})

	t.Run("Alternates along a played line", func(t *testing.T) {
		board := InitialState()
		expected := X

		for _, action := range []Action{{1, 1}, {0, 0}, {0, 1}, {2, 1}, {1, 0}} {
			mover, err := PlayerToMove(board)
			require.NoError(t, err)
			assert.Equal(t, expected, mover)

			board, err = Apply(board, action)
			require.NoError(t, err)
			expected = expected.Opponent()
		}
	})
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name   string
		board  string
		winner Mark
		ok     bool
	}{
		{name: "top row X", board: "XXX......", winner: X, ok: true},
		{name: "middle row O", board: "X.XOOOX..", winner: O, ok: true},
		{name: "left column X", board: "XO.XO.X..", winner: X, ok: true},
		{name: "right column O", board: "XXOX.O..O", winner: O, ok: true},
		{name: "primary diagonal X", board: "XO..XO..X", winner: X, ok: true},
		{name: "anti-diagonal O", board: "XXO.O.O.X", winner: O, ok: true},
		{name: "no line", board: "XOX......", winner: Empty, ok: false},
		{name: "empty board", board: ".........", winner: Empty, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, ok := Winner(mustParse(t, tt.board))

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.winner, winner)
		})
	}
}

func TestTerminalAndUtility(t *testing.T) {
	t.Run("Row of X is terminal with utility 1", func(t *testing.T) {
		// Given: row 0 is X X X and the rest is empty
		board := mustParse(t, "XXX......")

		// When: evaluating the board
		utility, err := Utility(board)

		// Then: X has won
		require.NoError(t, err)
		assert.True(t, Terminal(board))
		assert.Equal(t, ScoreXWins, utility)
		assert.Equal(t, XWins, GetOutcome(board))
	})

	t.Run("Column of O is terminal with utility -1", func(t *testing.T) {
		board := mustParse(t, "OXXOX.O..")

		utility, err := Utility(board)

		require.NoError(t, err)
		assert.True(t, Terminal(board))
		assert.Equal(t, ScoreOWins, utility)
		assert.Equal(t, OWins, GetOutcome(board))
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a full board with no three in a row
		board := mustParse(t, "XOXXOOOXX")

		// When: evaluating the board
		utility, err := Utility(board)
		actions, ok := Actions(board)

		// Then: it is over, scores 0 and offers no actions
		require.NoError(t, err)
		_, hasWinner := Winner(board)
		assert.False(t, hasWinner)
		assert.True(t, Terminal(board))
		assert.Equal(t, ScoreDraw, utility)
		assert.Equal(t, Draw, GetOutcome(board))
		assert.False(t, ok)
		assert.Nil(t, actions)
	})

	t.Run("Utility on an unfinished board returns ErrInvalidState", func(t *testing.T) {
		board := mustParse(t, "X...O....")

		_, err := Utility(board)

		assert.False(t, Terminal(board))
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Won board has no actions even with empty cells", func(t *testing.T) {
		board := mustParse(t, "XXXOO....")

		actions, ok := Actions(board)

		assert.False(t, ok)
		assert.Empty(t, actions)
	})
}

func TestApply(t *testing.T) {
	t.Run("Places the mover's mark on a copy", func(t *testing.T) {
		// Given: the initial board
		board := InitialState()

		// When: X plays the corner twice from the same board
		first, err := Apply(board, Action{Row: 0, Col: 0})
		require.NoError(t, err)
		second, err := Apply(board, Action{Row: 0, Col: 0})
		require.NoError(t, err)

		// Then: both results agree and the original is untouched
		assert.Equal(t, first, second)
		assert.Equal(t, "X........", first.String())
		assert.Equal(t, InitialState(), board)
		assert.False(t, Terminal(first))
	})

	t.Run("Places O after X", func(t *testing.T) {
		board := mustParse(t, "....X....")

		next, err := Apply(board, Action{Row: 2, Col: 2})

		require.NoError(t, err)
		assert.Equal(t, O, next[2][2])
	})

	t.Run("Returns ErrCellOccupied on a taken cell", func(t *testing.T) {
		// Given: X holds the centre
		board := mustParse(t, "....X....")

		// When: playing the centre again
		next, err := Apply(board, Action{Row: 1, Col: 1})

		// Then: the move is rejected and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, board, next)
	})

	t.Run("Returns ErrOutOfBounds for coordinates off the grid", func(t *testing.T) {
		for _, action := range []Action{{3, 0}, {0, 3}, {-1, 0}, {0, -1}} {
			_, err := Apply(InitialState(), action)

			assert.ErrorIs(t, err, apperror.ErrOutOfBounds, "action %s", action)
		}
	})

	t.Run("Returns ErrInvalidBoard on a malformed board", func(t *testing.T) {
		board := mustParse(t, "OO.......")

		_, err := Apply(board, Action{Row: 2, Col: 2})

		assert.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})
}

func TestTerminalMatchesWinnerOrNoActions(t *testing.T) {
	// Walk every board reachable from the initial state.
	seen := map[Board]bool{}
	var walk func(board Board)
	walk = func(board Board) {
		if seen[board] {
			return
		}
		seen[board] = true

		_, hasWinner := Winner(board)
		actions, ok := Actions(board)
		require.Equal(t, hasWinner || !ok, Terminal(board), board.String())

		if Terminal(board) {
			utility, err := Utility(board)
			require.NoError(t, err)

			winner, _ := Winner(board)
			switch winner {
			case X:
				require.Equal(t, ScoreXWins, utility)
			case O:
				require.Equal(t, ScoreOWins, utility)
			default:
				require.Equal(t, ScoreDraw, utility)
			}
			return
		}

		for _, action := range actions {
			next, err := Apply(board, action)
			require.NoError(t, err)
			walk(next)
		}
	}

	walk(InitialState())

	assert.Len(t, seen, 5478)
}

func TestBoardText(t *testing.T) {
	t.Run("Round trips through String", func(t *testing.T) {
		board := mustParse(t, "X.O-O X..")

		assert.Equal(t, "X.O.O.X..", board.String())
	})

	t.Run("Rejects wrong length", func(t *testing.T) {
		_, err := ParseBoard("XO")

		assert.ErrorIs(t, err, apperror.ErrMalformedBoard)
	})

	t.Run("Rejects unknown characters", func(t *testing.T) {
		_, err := ParseBoard("XO?......")

		assert.ErrorIs(t, err, apperror.ErrMalformedBoard)
	})

	t.Run("Encodes marks as strings in JSON", func(t *testing.T) {
		board := mustParse(t, "X...O....")

		data, err := json.Marshal(board)
		require.NoError(t, err)
		assert.JSONEq(t, `[["X","",""],["","O",""],["","",""]]`, string(data))

		var decoded Board
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, board, decoded)
	})
}
