package collision

import "math"

// Pair is an order-independent key for a contact.
type Pair struct {
	Body  int
	Other Obstacle
}

// Key normalises body-body pairs so (a,b) and (b,a) collide on the same key.
func Key(id int, o Obstacle) Pair {
	if o.Kind == KindBody && o.ID < id {
		return Pair{Body: o.ID, Other: BodyObstacle(id)}
	}
	return Pair{Body: id, Other: o}
}

// Fence holds the pairs resolved by the previous step.
type Fence struct {
	eps   float64
	pairs []Pair
}

func NewFence(eps float64) *Fence {
	if eps < 0 {
		eps = 0
	}
	return &Fence{eps: eps}
}

func (f *Fence) Epsilon() float64 { return f.eps }

// Reset replaces the fenced pairs with the events just resolved.
func (f *Fence) Reset(events []Event) {
	f.pairs = f.pairs[:0]
	for _, e := range events {
		f.pairs = append(f.pairs, Key(e.Body, e.Other))
	}
}

func (f *Fence) Contains(id int, o Obstacle) bool {
	if f == nil {
		return false
	}
	k := Key(id, o)
	for _, p := range f.pairs {
		if p == k {
			return true
		}
	}
	return false
}

// Admit filters a predicted time: a fenced pair at or below epsilon is not
// a new contact.
func (f *Fence) Admit(id int, o Obstacle, tc float64) float64 {
	if f != nil && tc <= f.eps && f.Contains(id, o) {
		return math.Inf(1)
	}
	return tc
}

// Pairs returns a copy of the fenced pairs.
func (f *Fence) Pairs() []Pair {
	if f == nil {
		return nil
	}
	out := make([]Pair, len(f.pairs))
	copy(out, f.pairs)
	return out
}
