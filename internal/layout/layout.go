package layout

import (
	"math/rand"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Layout is a full-grid placement vector. Bit i set means a turbine occupies
// the cell with id i+1.
type Layout struct {
	bits *bitset.BitSet
	n    int
}

// New creates an empty layout over n grid cells
func New(n int) *Layout {
	return &Layout{bits: bitset.New(uint(n)), n: n}
}

// FromBits builds a layout from a 0/1 slice; any non-zero value is a turbine
func FromBits(bits []uint8) *Layout {
	l := New(len(bits))
	for i, b := range bits {
		if b != 0 {
			l.bits.Set(uint(i))
		}
	}
	return l
}

// Random creates a layout with exactly turbines bits set, drawn uniformly
func Random(n, turbines int, rng *rand.Rand) *Layout {
	l := New(n)
	for _, i := range rng.Perm(n)[:turbines] {
		l.bits.Set(uint(i))
	}
	return l
}

// Len returns the number of grid cells
func (l *Layout) Len() int {
	return l.n
}

// Count returns the number of turbines placed
func (l *Layout) Count() int {
	return int(l.bits.Count())
}

// Has reports whether cell index i is occupied
func (l *Layout) Has(i int) bool {
	return l.bits.Test(uint(i))
}

// Set places a turbine at cell index i
func (l *Layout) Set(i int) {
	l.bits.Set(uint(i))
}

// Clear removes the turbine at cell index i
func (l *Layout) Clear(i int) {
	l.bits.Clear(uint(i))
}

// Flip toggles cell index i
func (l *Layout) Flip(i int) {
	l.bits.Flip(uint(i))
}

// Occupied returns the indices of occupied cells in ascending order
func (l *Layout) Occupied() []int {
	out := make([]int, 0, l.Count())
	for i, ok := l.bits.NextSet(0); ok && int(i) < l.n; i, ok = l.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// Free returns the indices of empty cells in ascending order
func (l *Layout) Free() []int {
	out := make([]int, 0, l.n-l.Count())
	for i := 0; i < l.n; i++ {
		if !l.bits.Test(uint(i)) {
			out = append(out, i)
		}
	}
	return out
}

// CellIDs returns the 1-based grid cell ids of occupied cells
func (l *Layout) CellIDs() []int {
	occ := l.Occupied()
	for k := range occ {
		occ[k]++
	}
	return occ
}

// Clone creates a deep copy
func (l *Layout) Clone() *Layout {
	return &Layout{bits: l.bits.Clone(), n: l.n}
}

// Equal reports whether both layouts cover the same cells with the same turbines
func (l *Layout) Equal(o *Layout) bool {
	if o == nil || l.n != o.n {
		return false
	}
	return l.bits.Equal(o.bits)
}

// Bits returns the layout as a 0/1 slice
func (l *Layout) Bits() []uint8 {
	out := make([]uint8, l.n)
	for i := range out {
		if l.bits.Test(uint(i)) {
			out[i] = 1
		}
	}
	return out
}

func (l *Layout) String() string {
	var sb strings.Builder
	sb.Grow(l.n)
	for i := 0; i < l.n; i++ {
		if l.bits.Test(uint(i)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
