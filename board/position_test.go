package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBoard_Opening(t *testing.T) {
	b := NewBoard()

	for i := 0; i < PitsPerSide; i++ {
		assert.EqualValues(t, 7, b.South.Pits[i], "south pit %d", i)
		assert.EqualValues(t, 7, b.North.Pits[i], "north pit %d", i)
	}
	assert.EqualValues(t, 0, b.South.Score)
	assert.EqualValues(t, 0, b.North.Score)
	assert.Equal(t, TotalSeeds, b.SeedCount())
}

func TestPosition_Opponent(t *testing.T) {
	assert.Equal(t, North, South.Opponent())
	assert.Equal(t, South, North.Opponent())
	assert.Equal(t, South, South.Opponent().Opponent())
}

func TestPlayerState_HasMoves(t *testing.T) {
	assert.True(t, PlayerState{Pits: [PitsPerSide]Nat{0, 0, 4, 0, 2, 8, 0}}.HasMoves())
	assert.False(t, PlayerState{Score: 40}.HasMoves())
}

func TestPlayerState_Seeds(t *testing.T) {
	ps := PlayerState{Pits: [PitsPerSide]Nat{1, 2, 3, 0, 0, 4, 5}, Score: 9}
	assert.Equal(t, 15, ps.Seeds(), "store is not part of the row")
}

func TestPlayerMove_String(t *testing.T) {
	assert.Equal(t, "swap", Swap.String())
	assert.Equal(t, "pit 3", Move(3).String())
}
