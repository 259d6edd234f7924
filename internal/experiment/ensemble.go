package experiment

import (
	"context"
	"sync"

	"github.com/san-kum/edmd/internal/analysis"
	"github.com/san-kum/edmd/internal/config"
	"github.com/san-kum/edmd/internal/sim"
)

// Outcome is one finished run of an ensemble. Track follows body TrackID.
type Outcome struct {
	Seed      int64
	Result    *sim.Result
	Simulator *sim.Simulator
	Track     []analysis.Sample
}

// Ensemble runs independent copies of a configuration with consecutive
// seeds. Each run is single-threaded; runs execute concurrently.
type Ensemble struct {
	base      *config.Config
	reg       *Registry
	numRuns   int
	seedStart int64
	TrackID   int
}

func NewEnsemble(base *config.Config, reg *Registry, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: base, reg: reg, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Outcome, error) {
	results := make([]*Outcome, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *e.base
			cfgCopy.Seed = e.seedStart + int64(idx)
			cfgCopy.Engine.Workers = 1

			exp := New(&cfgCopy)
			if err := exp.Setup(e.reg, e.reg.DefaultMetrics()); err != nil {
				errs[idx] = err
				return
			}
			out := &Outcome{Seed: cfgCopy.Seed, Simulator: exp.GetSimulator()}
			out.Track = append(out.Track, sampleOf(exp.GetSimulator().Current(), e.TrackID)...)
			exp.GetSimulator().AddObserver(sim.ObserverFunc(func(st *sim.Step) {
				out.Track = append(out.Track, sampleOf(st.State, e.TrackID)...)
			}))

			out.Result, errs[idx] = exp.Run(ctx)
			results[idx] = out
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func sampleOf(st *sim.State, id int) []analysis.Sample {
	b, ok := st.Body(id)
	if !ok {
		return nil
	}
	return []analysis.Sample{{T: st.Time, X: b.Pos.X, Y: b.Pos.Y, VX: b.Vel.X, VY: b.Vel.Y}}
}

// MSD averages the mean squared displacement of the tracked body over all
// outcomes.
func MSD(outcomes []*Outcome, dt float64) []analysis.Point {
	curves := make([][]analysis.Point, 0, len(outcomes))
	for _, o := range outcomes {
		if len(o.Track) > 0 {
			curves = append(curves, analysis.MSD(o.Track, dt))
		}
	}
	return analysis.AverageMSD(curves)
}
