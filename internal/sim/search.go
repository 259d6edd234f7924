package sim

import (
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/collision"
)

// searchChunk is the smallest per-goroutine slice of bodies worth the
// scheduling cost.
const searchChunk = 64

// NextEvents returns the events to resolve in the next step, sorted by body
// id. It is empty when no finite event exists.
func NextEvents(s *State, fence *collision.Fence, cfg Config) []collision.Event {
	n := len(s.Bodies)
	candidates := make([]collision.Event, n)
	ParallelFor(n, searchChunk, cfg.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			candidates[i] = candidate(s, i, fence)
		}
	})

	// Serial reduction in id order; strict < keeps the lowest id on ties.
	best := -1
	for i, c := range candidates {
		if !c.Finite() {
			continue
		}
		if best < 0 || c.Tc < candidates[best].Tc {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	if cfg.TieBreak != TieCombined {
		return []collision.Event{candidates[best]}
	}

	tmin := candidates[best].Tc
	used := make(map[int]bool)
	var out []collision.Event
	for _, c := range candidates {
		if !c.Finite() || c.Tc > tmin+cfg.Epsilon {
			continue
		}
		if used[c.Body] || (c.Other.IsBody() && used[c.Other.ID]) {
			continue
		}
		used[c.Body] = true
		if c.Other.IsBody() {
			used[c.Other.ID] = true
		}
		out = append(out, c)
	}
	return out
}

// candidate is the earliest contact of body i. Walls are checked first in
// side order, then other bodies in id order; a moving pair is owned by its
// lower id so each pair is examined once.
func candidate(s *State, i int, fence *collision.Fence) collision.Event {
	a := s.Bodies[i]
	best := collision.Never(a.ID)
	if a.Static {
		return best
	}
	for _, side := range boundary.Sides {
		o := collision.WallObstacle(side)
		tc := fence.Admit(a.ID, o, s.Box.TimeToContact(a, side))
		if tc < best.Tc {
			best = collision.Event{Tc: tc, Body: a.ID, Other: o}
		}
	}
	for j, b := range s.Bodies {
		if j == i || (!b.Static && j < i) {
			continue
		}
		o := collision.ObstacleFor(b)
		tc := fence.Admit(a.ID, o, collision.TimeTo(a, o, b, s.Box))
		if tc < best.Tc {
			best = collision.Event{Tc: tc, Body: a.ID, Other: o}
		}
	}
	return best
}
