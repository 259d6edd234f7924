package accum

import "fmt"

// Ledger owns one Accumulator per tracked surface and keeps them extended
// to the same bin, so every series has the same length.
type Ledger struct {
	width float64
	order []Surface
	acc   map[Surface]*Accumulator
	last  int
}

func NewLedger(width float64) (*Ledger, error) {
	if _, err := NewAccumulator(width); err != nil {
		return nil, err
	}
	return &Ledger{width: width, acc: make(map[Surface]*Accumulator)}, nil
}

func (l *Ledger) Width() float64 { return l.width }

// Track registers a surface. Tracking twice is a no-op.
func (l *Ledger) Track(s Surface) {
	if _, ok := l.acc[s]; ok {
		return
	}
	// width was validated by NewLedger
	a := newAccumulator(l.width)
	a.Extend(l.last)
	l.acc[s] = a
	l.order = append(l.order, s)
}

func (l *Ledger) Tracked(s Surface) bool {
	_, ok := l.acc[s]
	return ok
}

// Advance zero-fills every surface up to the bin containing t. An instant
// past MaxBins fails with ErrBinRange and leaves every surface untouched.
func (l *Ledger) Advance(t float64) error {
	idx, err := binIndex(t, l.width)
	if err != nil {
		return err
	}
	if idx <= l.last {
		return nil
	}
	l.last = idx
	for _, s := range l.order {
		l.acc[s].Extend(idx)
	}
	return nil
}

// Record attributes a contact at instant t to s. Untracked surfaces are
// rejected.
func (l *Ledger) Record(s Surface, t, momentum float64, bodyID int) error {
	a, ok := l.acc[s]
	if !ok {
		return fmt.Errorf("accum: surface %s is not tracked", s)
	}
	if err := l.Advance(t); err != nil {
		return err
	}
	return a.Record(t, momentum, bodyID)
}

// Stats returns the bins of a surface in time order.
func (l *Ledger) Stats(s Surface) ([]Bin, bool) {
	a, ok := l.acc[s]
	if !ok {
		return nil, false
	}
	return a.Bins(), true
}

// Surfaces lists tracked surfaces in registration order.
func (l *Ledger) Surfaces() []Surface {
	out := make([]Surface, len(l.order))
	copy(out, l.order)
	return out
}

func (l *Ledger) Totals(s Surface) (count, unique int, momentum float64) {
	a, ok := l.acc[s]
	if !ok {
		return 0, 0, 0
	}
	return a.Totals()
}
