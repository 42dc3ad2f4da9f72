package engine

import "kalah/board"

// NumHeuristics is the number of heuristic terms in the evaluation.
const NumHeuristics = 5

// Weights scales the heuristics, in order: current score, offensive
// capture, defensive capture, chaining potential, hoarding. Weights are
// supplied by the caller and stay fixed for a match.
type Weights [NumHeuristics]float32

// Each heuristic is a signed integer in which positive favours South, the
// player moving first.
var heuristics = [NumHeuristics]func(board.BoardState) int{
	currentScore,
	offensiveCapture,
	defensiveCapture,
	chainingPotential,
	hoarding,
}

// Evaluate returns the weighted sum of the heuristics. Terms with a zero
// weight are skipped; the result is identical to computing them and
// multiplying by zero.
func Evaluate(b board.BoardState, w Weights) board.Score {
	var score float32
	for i, h := range heuristics {
		if w[i] != 0 {
			score += float32(h(b)) * w[i]
		}
	}
	return score
}

// currentScore is the store difference.
func currentScore(b board.BoardState) int {
	return int(b.South.Score) - int(b.North.Score)
}

// captureCycle folds a pit's seed count onto a landing index for the
// capture-chance estimate. Counts that wrap exactly once land back in the
// starting pit with a single seed; wrapping further does not.
const captureCycle = 13

// captureChances estimates the capture value available to pos: for each
// non-empty pit whose sowing would end in an own pit that is empty (or is
// the starting pit reached by exactly one lap), with seeds waiting in the
// facing pit, it adds the facing count plus the landing seed.
func captureChances(b board.BoardState, pos board.Position) int {
	own := b.Player(pos)
	opp := b.Player(pos.Opponent())
	total := 0
	for i, n := range own.Pits {
		if n == 0 {
			continue
		}
		final := (i + int(n)) % captureCycle
		if final >= board.PitsPerSide {
			continue
		}
		if final == i {
			if int(n) != captureCycle {
				continue
			}
		} else if own.Pits[final] != 0 {
			continue
		}
		opposite := opp.Pits[board.PitsPerSide-1-final]
		if opposite == 0 {
			continue
		}
		total += int(opposite) + 1
	}
	return total
}

// offensiveCapture rewards boards offering South more capture chances.
func offensiveCapture(b board.BoardState) int {
	return captureChances(b, board.South) - captureChances(b, board.North)
}

// defensiveCapture rewards boards offering the opponent fewer capture
// chances. It is exactly the negation of offensiveCapture.
func defensiveCapture(b board.BoardState) int {
	return -offensiveCapture(b)
}

// extraTurnMoves counts the mover's legal moves that land in the own store
// and so grant another turn. The pie rule is excluded.
func extraTurnMoves(b board.BoardState, pos board.Position) int {
	count := 0
	b.Children(pos, false, func(_ board.PlayerMove, _ board.BoardState, nextPos board.Position, _ bool) bool {
		if nextPos == pos {
			count++
		}
		return true
	})
	return count
}

// chainingPotential rewards boards from which South can chain extra turns.
func chainingPotential(b board.BoardState) int {
	return extraTurnMoves(b, board.South) - extraTurnMoves(b, board.North)
}

// hoarding rewards keeping seeds in the two pits nearest the own store,
// where they are hardest for the opponent to reach.
func hoarding(b board.BoardState) int {
	south := int(b.South.Pits[board.PitsPerSide-1]) + int(b.South.Pits[board.PitsPerSide-2])
	north := int(b.North.Pits[board.PitsPerSide-1]) + int(b.North.Pits[board.PitsPerSide-2])
	return south - north
}
