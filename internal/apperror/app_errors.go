package apperror

import "errors"

var (
	ErrOutOfBounds    = errors.New("action is out of bounds")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrInvalidBoard   = errors.New("board violates turn order")
	ErrInvalidState   = errors.New("board is not terminal")
	ErrMalformedBoard = errors.New("malformed board")
)
