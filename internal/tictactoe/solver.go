package tictactoe

import (
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Search windows start outside every reachable score.
const (
	lowerBound = entity.ScoreOWins - 1
	upperBound = entity.ScoreXWins + 1
)

var defaultSolver = NewSolver()

// Result describes one root search. Action is nil when the board is terminal.
type Result struct {
	Action *entity.Action `json:"action,omitempty"`
	Found  bool           `json:"found"`
	Score  entity.Score   `json:"score"`
	Nodes  int            `json:"nodes"`
}

type Option func(*Solver)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = logger.With("component", "solver")
	}
}

// WithoutPruning explores the whole tree. The chosen action never differs from
// the pruned search; only the node count does.
func WithoutPruning() Option {
	return func(s *Solver) {
		s.prune = false
	}
}

// WithParallelRoot searches each root action in its own goroutine with a full
// window and merges the results in generator order.
func WithParallelRoot() Option {
	return func(s *Solver) {
		s.parallel = true
	}
}

// Solver picks game-theoretically optimal moves with minimax and alpha-beta
// pruning. It holds no per-search state and is safe for concurrent use.
type Solver struct {
	logger   *slog.Logger
	prune    bool
	parallel bool
}

func NewSolver(opts ...Option) *Solver {
	solver := &Solver{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		prune:  true,
	}

	for _, opt := range opts {
		opt(solver)
	}

	return solver
}

// BestMove returns the optimal action for the player to move using the default
// solver. ok is false when the board is terminal.
func BestMove(board entity.Board) (entity.Action, bool, error) {
	return defaultSolver.BestMove(board)
}

func (that *Solver) BestMove(board entity.Board) (entity.Action, bool, error) {
	result, err := that.Search(board)
	if err != nil {
		return entity.Action{}, false, err
	}

	if !result.Found {
		return entity.Action{}, false, nil
	}

	return *result.Action, true, nil
}

// Search runs a full-depth search from board. On a terminal board the result
// has Found unset and carries the board's utility as Score.
func (that *Solver) Search(board entity.Board) (Result, error) {
	log := that.logger.With("method", "Search", "board", board.String())

	mover, err := entity.PlayerToMove(board)
	if err != nil {
		return Result{}, fmt.Errorf("failed to determine mover: %w", err)
	}

	actions, ok := entity.Actions(board)
	if !ok {
		return Result{Score: mustUtility(board), Nodes: 1}, nil
	}

	var result Result
	if that.parallel {
		result = that.searchParallel(board, mover, actions)
	} else {
		s := &searcher{prune: that.prune}
		result = s.root(board, mover, actions)
	}

	log.Debug("search finished",
		"mover", mover.String(),
		"action", result.Action.String(),
		"score", int(result.Score),
		"nodes", result.Nodes,
	)

	return result, nil
}

func (that *Solver) searchParallel(board entity.Board, mover entity.Mark, actions []entity.Action) Result {
	scores := make([]entity.Score, len(actions))
	nodes := make([]int, len(actions))

	var group errgroup.Group
	for i, action := range actions {
		group.Go(func() error {
			s := &searcher{prune: that.prune}
			scores[i] = s.child(mustApply(board, action), mover, lowerBound, upperBound)
			nodes[i] = s.nodes
			return nil
		})
	}
	_ = group.Wait() // workers never fail

	result := Result{Found: true, Nodes: 1, Score: worstFor(mover)}
	for i, action := range actions {
		result.Nodes += nodes[i]

		if better(mover, scores[i], result.Score) {
			result.Score = scores[i]
			result.Action = &action
		}
	}

	return result
}

// searcher carries the node counter of one sequential search.
type searcher struct {
	prune bool
	nodes int
}

func (that *searcher) root(board entity.Board, mover entity.Mark, actions []entity.Action) Result {
	that.nodes++

	alpha, beta := lowerBound, upperBound
	result := Result{Found: true, Score: worstFor(mover)}

	for _, action := range actions {
		score := that.child(mustApply(board, action), mover, alpha, beta)
		if better(mover, score, result.Score) {
			result.Score = score
			result.Action = &action
		}

		if mover == entity.X {
			alpha = max(alpha, result.Score)
		} else {
			beta = min(beta, result.Score)
		}

		if that.prune && beta <= alpha {
			break
		}
	}

	result.Nodes = that.nodes

	return result
}

// child values the board reached after mover played.
func (that *searcher) child(board entity.Board, mover entity.Mark, alpha, beta entity.Score) entity.Score {
	if mover == entity.X {
		return that.minValue(board, alpha, beta)
	}

	return that.maxValue(board, alpha, beta)
}

func (that *searcher) maxValue(board entity.Board, alpha, beta entity.Score) entity.Score {
	that.nodes++

	actions, ok := entity.Actions(board)
	if !ok {
		return mustUtility(board)
	}

	value := lowerBound
	for _, action := range actions {
		value = max(value, that.minValue(mustApply(board, action), alpha, beta))
		alpha = max(alpha, value)

		if that.prune && beta <= alpha {
			break
		}
	}

	return value
}

func (that *searcher) minValue(board entity.Board, alpha, beta entity.Score) entity.Score {
	that.nodes++

	actions, ok := entity.Actions(board)
	if !ok {
		return mustUtility(board)
	}

	value := upperBound
	for _, action := range actions {
		value = min(value, that.maxValue(mustApply(board, action), alpha, beta))
		beta = min(beta, value)

		if that.prune && beta <= alpha {
			break
		}
	}

	return value
}

// better reports whether score strictly improves on best for mover, so the
// first action reaching a score keeps it.
func better(mover entity.Mark, score, best entity.Score) bool {
	if mover == entity.X {
		return score > best
	}

	return score < best
}

func worstFor(mover entity.Mark) entity.Score {
	if mover == entity.X {
		return lowerBound
	}

	return upperBound
}

// mustApply plays an action produced by entity.Actions on a board whose turn
// order was already validated, which cannot fail.
func mustApply(board entity.Board, action entity.Action) entity.Board {
	next, err := entity.Apply(board, action)
	if err != nil {
		panic(fmt.Errorf("apply generated action %s: %w", action, err))
	}

	return next
}

func mustUtility(board entity.Board) entity.Score {
	score, err := entity.Utility(board)
	if err != nil {
		panic(fmt.Errorf("utility of terminal board %s: %w", board, err))
	}

	return score
}
