package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/match"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

var errMissingAction = errors.New("action is required")

type Engine interface {
	Analyze(ctx context.Context, board entity.Board) (*usecase.Analysis, error)
	Apply(ctx context.Context, board entity.Board, action entity.Action) (entity.Board, error)
	BestMove(ctx context.Context, board entity.Board) (tictactoe.Result, error)
	SelfPlay(ctx context.Context, board entity.Board) (*match.Game, error)
}

// Request carries a board in its nine-character text form, e.g. "X...O....".
type Request struct {
	Board  string         `json:"board"`
	Action *entity.Action `json:"action,omitempty"`
}

type ApplyResponse struct {
	Board    entity.Board   `json:"board"`
	Text     string         `json:"text"`
	Terminal bool           `json:"terminal"`
	Outcome  entity.Outcome `json:"outcome"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handlers struct {
	logger *slog.Logger
	engine Engine
}

func NewHandlers(logger *slog.Logger, engine Engine) *Handlers {
	return &Handlers{
		logger: logger.With("component", "rest"),
		engine: engine,
	}
}

func (that *Handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	board, _, err := readRequest(r)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	analysis, err := that.engine.Analyze(r.Context(), board)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, r, http.StatusOK, analysis)
}

func (that *Handlers) Apply(w http.ResponseWriter, r *http.Request) {
	board, action, err := readRequest(r)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	if action == nil {
		that.writeError(w, r, errMissingAction)
		return
	}

	next, err := that.engine.Apply(r.Context(), board, *action)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, r, http.StatusOK, ApplyResponse{
		Board:    next,
		Text:     next.String(),
		Terminal: entity.Terminal(next),
		Outcome:  entity.GetOutcome(next),
	})
}

func (that *Handlers) BestMove(w http.ResponseWriter, r *http.Request) {
	board, _, err := readRequest(r)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	result, err := that.engine.BestMove(r.Context(), board)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, r, http.StatusOK, result)
}

func (that *Handlers) Play(w http.ResponseWriter, r *http.Request) {
	board, _, err := readRequest(r)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	game, err := that.engine.SelfPlay(r.Context(), board)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, r, http.StatusOK, game)
}

func readRequest(r *http.Request) (entity.Board, *entity.Action, error) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return entity.Board{}, nil, fmt.Errorf("%w: %w", apperror.ErrMalformedBoard, err)
	}

	board, err := entity.ParseBoard(req.Board)
	if err != nil {
		return entity.Board{}, nil, err
	}

	return board, req.Action, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrMalformedBoard), errors.Is(err, errMissingAction):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrOutOfBounds), errors.Is(err, apperror.ErrInvalidBoard):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed",
			"method", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}

	that.writeJSON(w, r, status, ErrorResponse{Error: err.Error()})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to write response",
			"method", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
}
