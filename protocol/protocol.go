// Package protocol speaks the referee's line protocol. Everything the wire
// does differently from the board model is contained here: pit indices are
// 1-based on the wire and 0-based internally, and the northern row arrives
// mirrored (the first northern field is the pit beside North's store).
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"kalah/board"
)

// Turn says whose move follows a state change.
type Turn uint8

const (
	TurnYou Turn = iota
	TurnOpponent
	TurnEnd
)

func (t Turn) String() string {
	switch t {
	case TurnYou:
		return "YOU"
	case TurnOpponent:
		return "OPP"
	}
	return "END"
}

// MessageKind tags the three referee messages.
type MessageKind uint8

const (
	MsgNewMatch MessageKind = iota
	MsgStateChange
	MsgGameOver
)

// WireMove is a move as the referee reports it: the pie-rule swap or a
// 1-based hole number. Holes are numbered in the mover's own sowing order,
// so translating to a board pit needs to know who moved; ToMove takes the
// mover as an argument.
type WireMove struct {
	Swap bool
	Hole board.Nat
}

// ToMove translates a reported move into board coordinates for the side
// that played it.
func (w WireMove) ToMove(mover board.Position) board.PlayerMove {
	if w.Swap {
		return board.Swap
	}
	return board.Move(holeToPit(w.Hole, mover))
}

// Message is one parsed referee line.
type Message struct {
	Kind  MessageKind
	Side  board.Position // NewMatch: the side this agent plays
	Move  WireMove       // StateChange: the move just played
	State board.BoardState
	Turn  Turn
}

// Parse decodes a single newline-terminated referee line.
func Parse(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case line == "END":
		return Message{Kind: MsgGameOver}, nil
	case strings.HasPrefix(line, "START;"):
		return parseStart(line)
	case strings.HasPrefix(line, "CHANGE;"):
		return parseChange(line)
	}
	return Message{}, errors.Errorf("protocol: unrecognised line %q", line)
}

func parseStart(line string) (Message, error) {
	switch strings.TrimPrefix(line, "START;") {
	case "South":
		return Message{Kind: MsgNewMatch, Side: board.South}, nil
	case "North":
		return Message{Kind: MsgNewMatch, Side: board.North}, nil
	}
	return Message{}, errors.Errorf("protocol: bad START line %q", line)
}

func parseChange(line string) (Message, error) {
	parts := strings.Split(strings.TrimPrefix(line, "CHANGE;"), ";")
	if len(parts) != 3 {
		return Message{}, errors.Errorf("protocol: CHANGE wants move;state;turn, got %q", line)
	}
	msg := Message{Kind: MsgStateChange}

	var err error
	if msg.Move, err = parseWireMove(parts[0]); err != nil {
		return Message{}, err
	}
	if msg.State, err = ParseState(parts[1]); err != nil {
		return Message{}, err
	}
	switch parts[2] {
	case "YOU":
		msg.Turn = TurnYou
	case "OPP":
		msg.Turn = TurnOpponent
	case "END":
		msg.Turn = TurnEnd
	default:
		return Message{}, errors.Errorf("protocol: bad turn %q", parts[2])
	}
	return msg, nil
}

func parseWireMove(s string) (WireMove, error) {
	if s == "SWAP" {
		return WireMove{Swap: true}, nil
	}
	hole, err := strconv.Atoi(s)
	if err != nil || hole < 1 || hole > board.PitsPerSide {
		return WireMove{}, errors.Errorf("protocol: bad move %q", s)
	}
	return WireMove{Hole: board.Nat(hole)}, nil
}

// ParseState decodes the 16-field board: north pits, north store, south
// pits, south store. The northern pits are reversed into the board model's
// sowing order.
func ParseState(s string) (board.BoardState, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 2*board.PitsPerSide+2 {
		return board.BoardState{}, errors.Errorf("protocol: state wants %d fields, got %d", 2*board.PitsPerSide+2, len(fields))
	}
	values := make([]board.Nat, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return board.BoardState{}, errors.Wrapf(err, "protocol: bad count %q", f)
		}
		if n < 0 || n > board.TotalSeeds {
			return board.BoardState{}, errors.Errorf("protocol: count %d out of range", n)
		}
		values[i] = board.Nat(n)
	}

	var b board.BoardState
	for i := 0; i < board.PitsPerSide; i++ {
		b.North.Pits[board.PitsPerSide-1-i] = values[i]
		b.South.Pits[i] = values[board.PitsPerSide+1+i]
	}
	b.North.Score = values[board.PitsPerSide]
	b.South.Score = values[2*board.PitsPerSide+1]

	if b.SeedCount() != board.TotalSeeds {
		return board.BoardState{}, errors.Errorf("protocol: board holds %d seeds, want %d", b.SeedCount(), board.TotalSeeds)
	}
	return b, nil
}

// FormatState renders a board back into the wire field order. Inverse of
// ParseState; used by tests and diagnostics.
func FormatState(b board.BoardState) string {
	fields := make([]string, 0, 2*board.PitsPerSide+2)
	for i := board.PitsPerSide - 1; i >= 0; i-- {
		fields = append(fields, strconv.Itoa(int(b.North.Pits[i])))
	}
	fields = append(fields, strconv.Itoa(int(b.North.Score)))
	for i := 0; i < board.PitsPerSide; i++ {
		fields = append(fields, strconv.Itoa(int(b.South.Pits[i])))
	}
	fields = append(fields, strconv.Itoa(int(b.South.Score)))
	return strings.Join(fields, ",")
}

// FormatMove renders the agent's reply line, without the newline. The
// mover's side decides the hole numbering.
func FormatMove(m board.PlayerMove, mover board.Position) string {
	if m.IsSwap {
		return "SWAP"
	}
	return fmt.Sprintf("MOVE;%d", pitToHole(m.Pit, mover))
}

// Wire holes count 1..7. For South they follow the board's pit order; for
// North they run from the store outwards, mirroring the board order.
func pitToHole(pit board.Nat, mover board.Position) board.Nat {
	if mover == board.South {
		return pit + 1
	}
	return board.PitsPerSide - pit
}

func holeToPit(hole board.Nat, mover board.Position) board.Nat {
	if mover == board.South {
		return hole - 1
	}
	return board.PitsPerSide - hole
}

// Conn reads referee messages and writes agent replies over a pair of
// line-buffered streams, flushing after every write.
type Conn struct {
	scanner *bufio.Scanner
	w       *bufio.Writer
}

// NewConn wraps the given streams; the agent passes stdin and stdout,
// tests pass in-memory buffers.
func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{scanner: bufio.NewScanner(r), w: bufio.NewWriter(w)}
}

// ReadMessage blocks for the next referee line. It returns io.EOF when the
// stream closes without a final END.
func (c *Conn) ReadMessage() (Message, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return Message{}, errors.Wrap(err, "protocol: read")
		}
		return Message{}, io.EOF
	}
	return Parse(c.scanner.Text())
}

// WriteMove sends one reply line and flushes it.
func (c *Conn) WriteMove(m board.PlayerMove, mover board.Position) error {
	if _, err := fmt.Fprintf(c.w, "%s\n", FormatMove(m, mover)); err != nil {
		return errors.Wrap(err, "protocol: write")
	}
	return errors.Wrap(c.w.Flush(), "protocol: flush")
}
