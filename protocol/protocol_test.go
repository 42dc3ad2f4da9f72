package protocol

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalah/board"
)

const openingState = "7,7,7,7,7,7,7,0,7,7,7,7,7,7,7,0"

// === Parsing ===

func TestParse_Start(t *testing.T) {
	msg, err := Parse("START;South\n")
	require.NoError(t, err)
	assert.Equal(t, MsgNewMatch, msg.Kind)
	assert.Equal(t, board.South, msg.Side)

	msg, err = Parse("START;North\n")
	require.NoError(t, err)
	assert.Equal(t, board.North, msg.Side)
}

func TestParse_GameOver(t *testing.T) {
	msg, err := Parse("END\n")
	require.NoError(t, err)
	assert.Equal(t, MsgGameOver, msg.Kind)
}

func TestParse_ChangeWithMove(t *testing.T) {
	msg, err := Parse("CHANGE;2;7,7,7,7,7,7,8,0,7,0,8,8,8,8,8,1;YOU\n")
	require.NoError(t, err)

	assert.Equal(t, MsgStateChange, msg.Kind)
	assert.False(t, msg.Move.Swap)
	assert.EqualValues(t, 2, msg.Move.Hole)
	assert.Equal(t, TurnYou, msg.Turn)
	assert.Equal(t, board.PlayerState{Pits: [board.PitsPerSide]board.Nat{7, 0, 8, 8, 8, 8, 8}, Score: 1}, msg.State.South)
	assert.Equal(t, board.PlayerState{Pits: [board.PitsPerSide]board.Nat{8, 7, 7, 7, 7, 7, 7}}, msg.State.North)
}

func TestParse_ChangeWithSwap(t *testing.T) {
	msg, err := Parse("CHANGE;SWAP;" + openingState + ";OPP\n")
	require.NoError(t, err)
	assert.True(t, msg.Move.Swap)
	assert.Equal(t, TurnOpponent, msg.Turn)
}

func TestParse_Errors(t *testing.T) {
	lines := []string{
		"HELLO\n",
		"START;East\n",
		"CHANGE;2;" + openingState + "\n",           // missing turn
		"CHANGE;2;" + openingState + ";LATER\n",     // bad turn
		"CHANGE;9;" + openingState + ";YOU\n",       // hole out of range
		"CHANGE;0;" + openingState + ";YOU\n",       // holes are 1-based
		"CHANGE;2;7,7,7;YOU\n",                      // short state
		"CHANGE;2;" + openingState + ",5;YOU\n",     // long state
		"CHANGE;2;7,x,7,7,7,7,7,0,7,7,7,7,7,7,7,0;YOU\n",
		"CHANGE;2;7,7,7,7,7,7,7,0,7,7,7,7,7,7,7,1;YOU\n", // 99 seeds
	}
	for _, line := range lines {
		_, err := Parse(line)
		assert.Error(t, err, "line %q", line)
	}
}

// === State orientation ===

func TestParseState_MirrorsNorthRow(t *testing.T) {
	// The wire lists North's pits from its store outwards; the board
	// model counts them in sowing order.
	b, err := ParseState("1,2,3,4,5,6,7,13,7,7,7,7,7,7,7,8")
	require.NoError(t, err)

	assert.Equal(t, [board.PitsPerSide]board.Nat{7, 6, 5, 4, 3, 2, 1}, b.North.Pits)
	assert.EqualValues(t, 13, b.North.Score)
	assert.Equal(t, [board.PitsPerSide]board.Nat{7, 7, 7, 7, 7, 7, 7}, b.South.Pits)
	assert.EqualValues(t, 8, b.South.Score)
}

func TestFormatState_RoundTrips(t *testing.T) {
	for _, s := range []string{
		openingState,
		"1,2,3,4,5,6,7,13,7,7,7,7,7,7,7,8",
		"0,0,0,0,0,0,0,40,1,1,0,0,0,0,0,56",
	} {
		b, err := ParseState(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatState(b))
	}
}

// === Moves ===

func TestFormatMove_BySide(t *testing.T) {
	assert.Equal(t, "MOVE;3", FormatMove(board.Move(2), board.South))
	assert.Equal(t, "MOVE;5", FormatMove(board.Move(2), board.North))
	assert.Equal(t, "MOVE;1", FormatMove(board.Move(0), board.South))
	assert.Equal(t, "MOVE;7", FormatMove(board.Move(0), board.North))
	assert.Equal(t, "SWAP", FormatMove(board.Swap, board.North))
}

func TestWireMove_ToMove(t *testing.T) {
	assert.Equal(t, board.Move(1), WireMove{Hole: 2}.ToMove(board.South))
	assert.Equal(t, board.Move(5), WireMove{Hole: 2}.ToMove(board.North))
	assert.Equal(t, board.Swap, WireMove{Swap: true}.ToMove(board.North))
}

func TestMoveConversion_RoundTrips(t *testing.T) {
	for _, mover := range []board.Position{board.South, board.North} {
		for pit := board.Nat(0); pit < board.PitsPerSide; pit++ {
			line := FormatMove(board.Move(pit), mover)
			w, err := parseWireMove(strings.TrimPrefix(line, "MOVE;"))
			require.NoError(t, err)
			assert.Equal(t, board.Move(pit), w.ToMove(mover), "%s pit %d", mover, pit)
		}
	}
}

// === Conn ===

func TestConn_ReadWrite(t *testing.T) {
	in := strings.NewReader("START;South\nEND\n")
	var out bytes.Buffer
	conn := NewConn(in, &out)

	msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, MsgNewMatch, msg.Kind)

	require.NoError(t, conn.WriteMove(board.Move(0), board.South))
	assert.Equal(t, "MOVE;1\n", out.String(), "writes are flushed per line")

	msg, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, MsgGameOver, msg.Kind)

	_, err = conn.ReadMessage()
	assert.Equal(t, io.EOF, err)
}
