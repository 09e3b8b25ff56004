package layout

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBits(t *testing.T) {
	l := FromBits([]uint8{1, 1, 0, 1, 0})

	assert.Equal(t, 5, l.Len())
	assert.Equal(t, 3, l.Count())
	assert.Equal(t, []int{0, 1, 3}, l.Occupied())
	assert.Equal(t, []int{2, 4}, l.Free())
	assert.Equal(t, []int{1, 2, 4}, l.CellIDs())
	assert.Equal(t, "11010", l.String())
	assert.Equal(t, []uint8{1, 1, 0, 1, 0}, l.Bits())
}

func TestRandomHasExactCount(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		l := Random(30, 7, rng)
		require.Equal(t, 30, l.Len())
		require.Equal(t, 7, l.Count())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := FromBits([]uint8{1, 0, 0, 1})
	b := a.Clone()
	require.True(t, a.Equal(b))

	b.Flip(1)
	b.Clear(0)

	assert.Equal(t, "1001", a.String())
	assert.Equal(t, "0101", b.String())
	assert.False(t, a.Equal(b))
}

func TestEqualRequiresSameLength(t *testing.T) {
	a := New(4)
	b := New(5)
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.True(t, a.Equal(New(4)))
}

func TestOccupiedIgnoresEmptyLayout(t *testing.T) {
	l := New(6)
	assert.Empty(t, l.Occupied())
	assert.Len(t, l.Free(), 6)
	assert.Equal(t, 0, l.Count())
}
