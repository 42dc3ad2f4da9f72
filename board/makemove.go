package board

import "fmt"

// FinalLocation classifies the cell the last sown seed landed in, relative
// to the sowing player.
type FinalLocation uint8

const (
	OwnPit FinalLocation = iota
	OwnStore
	OpponentPit
	// OpponentStore never occurs: the opponent's store is skipped while
	// sowing. It exists so a Landing can name every cell on the board.
	OpponentStore
)

// Landing is where the last seed came to rest. Pit is meaningful for
// OwnPit and OpponentPit only.
type Landing struct {
	Loc FinalLocation
	Pit Nat
}

// sowing walks counter-clockwise over 15 cells: the mover's pits 0..6, the
// mover's store, then the opponent's pits 0..6. The opponent's store is
// skipped entirely.
const sowCells = 2*PitsPerSide + 1

// Sow empties the mover's pit and deposits one seed per cell walking
// counter-clockwise, wrapping as often as needed. The chosen pit must be
// non-empty; sowing an empty pit is a bug in the caller.
func (b BoardState) Sow(pos Position, pit Nat) (BoardState, Landing) {
	own := b.side(pos)
	opp := b.side(pos.Opponent())
	seeds := own.Pits[pit]
	if seeds == 0 {
		panic(fmt.Sprintf("board: sow from empty pit %d (%s)", pit, pos))
	}
	own.Pits[pit] = 0

	var last Landing
	cell := int(pit) + 1
	for ; seeds > 0; seeds-- {
		switch {
		case cell < PitsPerSide:
			own.Pits[cell]++
			last = Landing{Loc: OwnPit, Pit: Nat(cell)}
		case cell == PitsPerSide:
			own.Score++
			last = Landing{Loc: OwnStore}
		default:
			opp.Pits[cell-PitsPerSide-1]++
			last = Landing{Loc: OpponentPit, Pit: Nat(cell - PitsPerSide - 1)}
		}
		cell++
		if cell == sowCells {
			cell = 0
		}
	}
	return b, last
}

// capture fires when the last seed landed in an own pit that was empty and
// the facing pit holds seeds: both pits are emptied into the mover's store.
func (b BoardState) capture(pos Position, pit Nat) BoardState {
	own := b.side(pos)
	opp := b.side(pos.Opponent())
	if own.Pits[pit] != 1 {
		return b
	}
	opposite := PitsPerSide - 1 - pit
	if opp.Pits[opposite] == 0 {
		return b
	}
	own.Score += opp.Pits[opposite] + 1
	own.Pits[pit] = 0
	opp.Pits[opposite] = 0
	return b
}

// Apply plays a move for pos and returns the resulting board, the side to
// move next, and the first-move flag for that side.
//
// A swap exchanges the two rows; in board coordinates the opponent then
// moves under the same tag, so nextPos stays pos and the flag drops.
//
// While firstMove is set and South is the mover, the turn is forced over to
// North regardless of where the last seed landed, and the flag stays up so
// North's reply may still be the swap. North's first actual move retires
// the flag for good.
func (b BoardState) Apply(m PlayerMove, pos Position, firstMove bool) (BoardState, Position, bool) {
	if m.IsSwap {
		b.North, b.South = b.South, b.North
		return b, pos, false
	}

	next, landing := b.Sow(pos, m.Pit)
	nextPos := pos.Opponent()
	switch landing.Loc {
	case OwnStore:
		nextPos = pos
	case OwnPit:
		next = next.capture(pos, landing.Pit)
	}

	if firstMove && pos == South {
		return next, North, true
	}
	return next, nextPos, false
}

// LegalMoves lists the mover's options: one Move per non-empty pit in
// ascending order, then Swap once if the pie rule is still available.
func (b BoardState) LegalMoves(pos Position, firstMove bool) []PlayerMove {
	moves := make([]PlayerMove, 0, PitsPerSide+1)
	for i, n := range b.Player(pos).Pits {
		if n > 0 {
			moves = append(moves, Move(Nat(i)))
		}
	}
	if firstMove && pos == North {
		moves = append(moves, Swap)
	}
	return moves
}

// Children visits (move, child, nextPos, nextFirst) for every legal move in
// LegalMoves order. The visitor returns false to stop early. No child
// escapes to the heap, which keeps search nodes allocation-free.
func (b BoardState) Children(pos Position, firstMove bool, visit func(m PlayerMove, child BoardState, nextPos Position, nextFirst bool) bool) {
	for i, n := range b.Player(pos).Pits {
		if n == 0 {
			continue
		}
		m := Move(Nat(i))
		child, nextPos, nextFirst := b.Apply(m, pos, firstMove)
		if !visit(m, child, nextPos, nextFirst) {
			return
		}
	}
	if firstMove && pos == North {
		child, nextPos, nextFirst := b.Apply(Swap, pos, firstMove)
		visit(Swap, child, nextPos, nextFirst)
	}
}

// IsTerminal reports whether the side to move has run out of moves. The
// game then ends: every seed still on the other row sweeps into the other
// side's store, and the payoff is the store difference, positive for South.
// The function is pure, so asking again about the same board returns the
// same payoff.
func (b BoardState) IsTerminal(toMove Position) (Score, bool) {
	if b.Player(toMove).HasMoves() {
		return 0, false
	}
	southScore := int(b.South.Score)
	northScore := int(b.North.Score)
	if toMove == South {
		northScore += b.North.Seeds()
	} else {
		southScore += b.South.Seeds()
	}
	return Score(southScore - northScore), true
}
