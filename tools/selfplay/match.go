package main

import (
	"kalah/board"
	"kalah/engine"
)

// Player is one side's configuration for a match.
type Player struct {
	Name    string
	Weights engine.Weights
	Depth   int
	Mode    engine.Mode
}

// Outcome summarises one finished match from the original seating:
// SeedDiff is positive when the profile that opened the game (as South)
// finished ahead, even if the pie rule moved it to the northern seat.
type Outcome struct {
	SeedDiff   int
	Plies      int
	Swapped    bool
	SouthNodes int64 // nodes spent by the profile that opened the game
	NorthNodes int64
}

// maxPlies bounds a match. A legal game cannot get near it; it guards
// against a rules bug looping forever.
const maxPlies = 1000

// PlayMatch plays a single game between two configurations, south moving
// first, pie rule live, and returns the swept final score difference.
func PlayMatch(south, north Player) Outcome {
	b := board.NewBoard()
	pos := board.South
	firstMove := true

	var out Outcome
	seats := map[board.Position]*Player{board.South: &south, board.North: &north}

	payoff := board.Score(0)
	for out.Plies = 0; out.Plies < maxPlies; out.Plies++ {
		var over bool
		if payoff, over = b.IsTerminal(pos); over {
			break
		}
		p := seats[pos]
		res := engine.Search(b, pos, p.Depth, firstMove, p.Weights, p.Mode)
		if p == &south {
			out.SouthNodes += res.Stats.Nodes
		} else {
			out.NorthNodes += res.Stats.Nodes
		}
		if res.Move.IsSwap {
			// The swapper takes over the opening; the opponent moves next
			// from the northern seat.
			seats[board.South], seats[board.North] = seats[board.North], seats[board.South]
			out.Swapped = true
		}
		b, pos, firstMove = b.Apply(res.Move, pos, firstMove)
	}

	out.SeedDiff = int(payoff)
	if out.Plies == maxPlies {
		out.SeedDiff = int(b.South.Score) - int(b.North.Score)
	}
	if out.Swapped {
		out.SeedDiff = -out.SeedDiff
	}
	return out
}
