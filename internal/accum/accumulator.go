package accum

import (
	"errors"
	"fmt"
	"math"
)

// MaxBins bounds the number of bins per surface. Intermediate bins are
// zero-filled, so memory follows simulated time over bin width.
const MaxBins = 1 << 18

var (
	ErrBinWidth = errors.New("accum: bin width must be positive")
	ErrBinRange = errors.New("accum: instant beyond the last bin")
)

// Bin aggregates the contacts whose instant falls in [Start, Start+width).
type Bin struct {
	Index    int
	Start    float64
	Count    int
	Unique   int
	Momentum float64
}

// Accumulator is an append-only sequence of bins for one surface. Bins are
// contiguous from index 0; gaps are zero-filled.
type Accumulator struct {
	width float64
	bins  []Bin
	seen  map[int]struct{}
}

func NewAccumulator(width float64) (*Accumulator, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, fmt.Errorf("%w, got %v", ErrBinWidth, width)
	}
	return newAccumulator(width), nil
}

// newAccumulator skips validation; width must already have been checked.
func newAccumulator(width float64) *Accumulator {
	a := &Accumulator{width: width, seen: make(map[int]struct{})}
	a.Extend(0)
	return a
}

func (a *Accumulator) Width() float64 { return a.width }

// BinIndex is floor(t / width). Instants that are NaN or would need more
// than MaxBins bins are rejected with ErrBinRange.
func (a *Accumulator) BinIndex(t float64) (int, error) { return binIndex(t, a.width) }

func binIndex(t, width float64) (int, error) {
	if math.IsNaN(t) {
		return 0, fmt.Errorf("%w: t=%v", ErrBinRange, t)
	}
	if t <= 0 {
		return 0, nil
	}
	f := math.Floor(t / width)
	if !(f < MaxBins) {
		return 0, fmt.Errorf("%w: t=%v needs bin %v, limit %d", ErrBinRange, t, f, MaxBins)
	}
	return int(f), nil
}

// Extend appends empty bins up to and including index.
func (a *Accumulator) Extend(index int) {
	for len(a.bins) <= index {
		i := len(a.bins)
		a.bins = append(a.bins, Bin{Index: i, Start: float64(i) * a.width})
	}
}

// Record attributes one contact at instant t. A body's first contact with
// this surface also counts as unique.
func (a *Accumulator) Record(t, momentum float64, bodyID int) error {
	idx, err := a.BinIndex(t)
	if err != nil {
		return err
	}
	a.Extend(idx)
	b := &a.bins[idx]
	b.Count++
	b.Momentum += momentum
	if _, ok := a.seen[bodyID]; !ok {
		a.seen[bodyID] = struct{}{}
		b.Unique++
	}
	return nil
}

// Bins returns a copy of the bins recorded so far.
func (a *Accumulator) Bins() []Bin {
	out := make([]Bin, len(a.bins))
	copy(out, a.bins)
	return out
}

func (a *Accumulator) Totals() (count, unique int, momentum float64) {
	for _, b := range a.bins {
		count += b.Count
		unique += b.Unique
		momentum += b.Momentum
	}
	return count, unique, momentum
}
