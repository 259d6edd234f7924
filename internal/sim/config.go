package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/edmd/internal/collision"
)

// TieBreak selects how events sharing the minimal contact time are
// processed.
type TieBreak int

const (
	// TieLowestID resolves only the event of the lowest body id.
	TieLowestID TieBreak = iota
	// TieCombined resolves every event within Epsilon of the minimum in one
	// step, in ascending body id, each participant at most once.
	TieCombined
)

func (t TieBreak) String() string {
	switch t {
	case TieLowestID:
		return "lowest-id"
	case TieCombined:
		return "combined"
	}
	return fmt.Sprintf("tiebreak(%d)", int(t))
}

func ParseTieBreak(name string) (TieBreak, error) {
	switch name {
	case "lowest-id", "":
		return TieLowestID, nil
	case "combined":
		return TieCombined, nil
	}
	return 0, configErr("unknown tie-break policy %q", name)
}

type Config struct {
	Epsilon  float64
	BinDt    float64
	TieBreak TieBreak

	// Zero disables a budget.
	MaxSteps     int
	MaxWallClock time.Duration
	MaxTime      float64

	History     int
	Workers     int
	TrackBodies []int
}

func DefaultConfig() Config {
	return Config{
		Epsilon:  collision.DefaultEpsilon,
		BinDt:    0.1,
		TieBreak: TieLowestID,
		History:  3,
		Workers:  1,
	}
}

func (c Config) Validate() error {
	if c.Epsilon < 0 || math.IsNaN(c.Epsilon) {
		return configErr("epsilon must be non-negative, got %v", c.Epsilon)
	}
	if !(c.BinDt > 0) || math.IsInf(c.BinDt, 0) {
		return configErr("bin width must be positive, got %v", c.BinDt)
	}
	if c.TieBreak != TieLowestID && c.TieBreak != TieCombined {
		return configErr("unknown tie-break policy %d", int(c.TieBreak))
	}
	if c.MaxSteps < 0 {
		return configErr("max steps must be non-negative, got %d", c.MaxSteps)
	}
	if c.MaxWallClock < 0 {
		return configErr("wall clock budget must be non-negative, got %v", c.MaxWallClock)
	}
	if c.MaxTime < 0 || math.IsNaN(c.MaxTime) {
		return configErr("max time must be non-negative, got %v", c.MaxTime)
	}
	if c.History < 2 || c.History > 3 {
		return configErr("history must hold 2 or 3 states, got %d", c.History)
	}
	if c.Workers < 0 {
		return configErr("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}
