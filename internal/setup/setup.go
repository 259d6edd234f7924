// Package setup generates initial configurations: a central obstacle and
// non-overlapping disks at random positions with a fixed speed and random
// direction.
package setup

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/geom"
)

// ObstacleID is the id of the central obstacle.
const ObstacleID = 0

// DefaultAttempts bounds rejection sampling per disk.
const DefaultAttempts = 10000

var ErrCrowded = errors.New("setup: could not place disks without overlap")

type Obstacle struct {
	Radius float64
	// Mass 0 makes the obstacle static.
	Mass float64
}

type Params struct {
	Box      boundary.Box
	Count    int
	Radius   float64
	Mass     float64
	Speed    float64
	Obstacle *Obstacle
	Attempts int
}

// CentralObstacle builds the obstacle at the centre of the box.
func CentralObstacle(bx boundary.Box, o Obstacle) body.Body {
	centre := geom.V(bx.Width/2, bx.Height/2)
	if o.Mass == 0 {
		return body.NewStatic(ObstacleID, centre, o.Radius)
	}
	return body.New(ObstacleID, centre, geom.Vec{}, o.Radius, o.Mass)
}

// Random places p.Count disks with ids 1..Count, rejecting positions that
// overlap anything already placed.
func Random(p Params, rng *rand.Rand) ([]body.Body, error) {
	if p.Count < 0 {
		return nil, fmt.Errorf("setup: negative count %d", p.Count)
	}
	if 2*p.Radius > p.Box.Width || 2*p.Radius > p.Box.Height {
		return nil, fmt.Errorf("setup: radius %v does not fit in %vx%v", p.Radius, p.Box.Width, p.Box.Height)
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	bodies := make([]body.Body, 0, p.Count+1)
	if p.Obstacle != nil {
		bodies = append(bodies, CentralObstacle(p.Box, *p.Obstacle))
	}

	for id := 1; id <= p.Count; id++ {
		placed := false
		for try := 0; try < attempts; try++ {
			x := p.Radius + rng.Float64()*(p.Box.Width-2*p.Radius)
			y := p.Radius + rng.Float64()*(p.Box.Height-2*p.Radius)
			angle := rng.Float64() * 2 * math.Pi
			vel := geom.V(math.Cos(angle)*p.Speed, math.Sin(angle)*p.Speed)
			candidate := body.New(id, geom.V(x, y), vel, p.Radius, p.Mass)
			if free(candidate, bodies) {
				bodies = append(bodies, candidate)
				placed = true
				break
			}
		}
		if !placed {
			return nil, fmt.Errorf("%w: placed %d of %d", ErrCrowded, id-1, p.Count)
		}
	}
	return bodies, nil
}

func free(c body.Body, placed []body.Body) bool {
	for _, b := range placed {
		if b.Gap(c) <= 0 {
			return false
		}
	}
	return true
}

// Occupancy is the fraction of the box area covered by disks.
func Occupancy(bodies []body.Body, bx boundary.Box) float64 {
	area := 0.0
	for _, b := range bodies {
		area += math.Pi * b.Radius * b.Radius
	}
	return area / (bx.Width * bx.Height)
}
