package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"k8s.io/klog/v2"

	"kalah/board"
)

// Mode selects the search algorithm. Both modes expand the same tree in
// the same order; AlphaBeta additionally prunes subtrees that cannot
// change the result, so the chosen move and score are identical.
type Mode uint8

const (
	AlphaBeta Mode = iota
	Minimax
)

func (m Mode) String() string {
	if m == Minimax {
		return "minimax"
	}
	return "alpha-beta"
}

// ParseMode parses the wire/CLI spelling of a search mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alpha-beta":
		return AlphaBeta, nil
	case "minimax":
		return Minimax, nil
	}
	return AlphaBeta, fmt.Errorf("unknown search mode %q (want minimax or alpha-beta)", s)
}

// Stats counts work done during one search.
type Stats struct {
	Nodes   int64 // boards expanded, root children included
	Leaves  int64 // terminal or depth-limited evaluations
	Cutoffs int64 // alpha-beta prunes
}

// Result is the outcome of one search. HasMove is false when the root was
// terminal or the depth limit was zero, in which case only Score is valid.
type Result struct {
	Move    board.PlayerMove
	HasMove bool
	Score   board.Score
	Stats   Stats
	Elapsed time.Duration
}

// Search picks a move for pos. South maximises and North minimises, always,
// regardless of which side the caller is playing. depthLimit is the number
// of plies expanded below the root; zero returns the root heuristic with no
// move selected. Ties go to the first move in LegalMoves order.
func Search(b board.BoardState, pos board.Position, depthLimit int, firstMove bool, w Weights, mode Mode) Result {
	start := time.Now()
	s := searcher{limit: depthLimit, weights: w, mode: mode}
	move, hasMove, score := s.eval(b, pos, 0, firstMove, math32.Inf(-1), math32.Inf(1))
	res := Result{
		Move:    move,
		HasMove: hasMove,
		Score:   score,
		Stats:   s.stats,
		Elapsed: time.Since(start),
	}
	if klog.V(2).Enabled() {
		elapsed := res.Elapsed.Seconds()
		if elapsed == 0 {
			elapsed = 1e-9
		}
		klog.Infof("%s depth=%d nodes=%d leaves=%d cutoffs=%d (%.0f nodes/s)",
			mode, depthLimit, res.Stats.Nodes, res.Stats.Leaves, res.Stats.Cutoffs,
			float64(res.Stats.Nodes)/elapsed)
	}
	return res
}

type searcher struct {
	limit   int
	weights Weights
	mode    Mode
	stats   Stats
}

// eval scores the node and, for non-leaf nodes, the move achieving that
// score. Terminal detection runs before the depth check so a finished game
// is always scored by its payoff, never by the heuristic.
func (s *searcher) eval(b board.BoardState, pos board.Position, depth int, firstMove bool, alpha, beta float32) (board.PlayerMove, bool, board.Score) {
	if payoff, over := b.IsTerminal(pos); over {
		s.stats.Leaves++
		return board.PlayerMove{}, false, payoff
	}
	if depth == s.limit {
		s.stats.Leaves++
		return board.PlayerMove{}, false, Evaluate(b, s.weights)
	}

	maximising := pos == board.South
	value := math32.Inf(1)
	if maximising {
		value = math32.Inf(-1)
	}
	var bestMove board.PlayerMove
	hasBest := false
	alpha0, beta0 := alpha, beta

	b.Children(pos, firstMove, func(m board.PlayerMove, child board.BoardState, nextPos board.Position, nextFirst bool) bool {
		s.stats.Nodes++
		_, _, score := s.eval(child, nextPos, depth+1, nextFirst, alpha, beta)
		if maximising {
			if !hasBest || score > value {
				value, bestMove, hasBest = score, m, true
			}
			if score > alpha {
				alpha = score
			}
		} else {
			if !hasBest || score < value {
				value, bestMove, hasBest = score, m, true
			}
			if score < beta {
				beta = score
			}
		}
		if s.mode == AlphaBeta && alpha >= beta {
			s.stats.Cutoffs++
			return false
		}
		return true
	})

	if s.mode == AlphaBeta {
		// Fail-hard: the returned value is clamped to the window the node
		// was searched with.
		if value < alpha0 {
			value = alpha0
		}
		if value > beta0 {
			value = beta0
		}
	}
	return bestMove, hasBest, value
}
