package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRectangular(t *testing.T) {
	g, err := NewRectangular(1000, 600, 200, 0.3, 12)
	require.NoError(t, err)

	require.Equal(t, 15, g.Len())
	cols, rows := g.Dims()
	assert.Equal(t, 5, cols)
	assert.Equal(t, 3, rows)

	for i := 0; i < g.Len(); i++ {
		assert.Equal(t, i+1, g.At(i).ID)
	}

	c, ok := g.Cell(7)
	require.True(t, ok)
	assert.InDelta(t, 300, c.X, 1e-9)
	assert.InDelta(t, 300, c.Y, 1e-9)
	assert.Equal(t, 0.3, c.Roughness)
	assert.Equal(t, 12.0, c.Elevation)
}

func TestNewRectangularDropsPartialCells(t *testing.T) {
	g, err := NewRectangular(450, 250, 100, 0.1, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, g.Len())
}

func TestCellOutOfRange(t *testing.T) {
	g, err := NewRectangular(200, 200, 100, 0.1, 0)
	require.NoError(t, err)

	_, ok := g.Cell(0)
	assert.False(t, ok)
	_, ok = g.Cell(5)
	assert.False(t, ok)
}

func TestNewRectangularErrors(t *testing.T) {
	_, err := NewRectangular(100, 100, 0, 0.1, 0)
	assert.Error(t, err)
	_, err = NewRectangular(-1, 100, 10, 0.1, 0)
	assert.Error(t, err)
	_, err = NewRectangular(50, 50, 100, 0.1, 0)
	assert.Error(t, err)
}

func TestFromCellsRequiresContiguousIDs(t *testing.T) {
	_, err := FromCells([]Cell{{ID: 1}, {ID: 3}}, 10)
	assert.Error(t, err)

	g, err := FromCells([]Cell{{ID: 1, X: 5}, {ID: 2, X: 15}}, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}
