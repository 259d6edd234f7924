package sim_test

import (
	"context"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/edmd/internal/accum"
	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/collision"
	"github.com/san-kum/edmd/internal/geom"
	"github.com/san-kum/edmd/internal/sim"
)

// lattice places side*side disks on a grid with seeded random velocities,
// plus a static obstacle in the centre when withObstacle is set.
func lattice(side int, radius float64, seed int64, withObstacle bool) []body.Body {
	rng := rand.New(rand.NewSource(seed))
	var bodies []body.Body
	id := 1
	spacing := 1.0 / float64(side+1)
	for i := 1; i <= side; i++ {
		for j := 1; j <= side; j++ {
			pos := geom.V(float64(i)*spacing, float64(j)*spacing)
			if withObstacle && math.Hypot(pos.X-0.5, pos.Y-0.5) < 0.05+radius+0.01 {
				continue
			}
			angle := rng.Float64() * 2 * math.Pi
			vel := geom.V(math.Cos(angle), math.Sin(angle))
			bodies = append(bodies, body.New(id, pos, vel, radius, 1))
			id++
		}
	}
	if withObstacle {
		bodies = append(bodies, body.NewStatic(0, geom.V(0.5, 0.5), 0.05))
	}
	return bodies
}

func mustSim(bodies []body.Body, cfg sim.Config) *sim.Simulator {
	bx, err := boundary.Square(1)
	Expect(err).NotTo(HaveOccurred())
	st, err := sim.InitialState(bodies, bx)
	Expect(err).NotTo(HaveOccurred())
	s, err := sim.New(st, cfg)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("event loop", func() {
	var cfg sim.Config

	BeforeEach(func() {
		cfg = sim.DefaultConfig()
		cfg.MaxSteps = 1500
	})

	It("conserves kinetic energy", func() {
		s := mustSim(lattice(6, 0.01, 1, true), cfg)
		e0 := s.Current().KineticEnergy()
		res, err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Reason).To(Equal(sim.StopMaxSteps))
		Expect(res.Final.KineticEnergy()).To(BeNumerically("~", e0, 1e-9*e0))
	})

	It("never lets disks penetrate", func() {
		s := mustSim(lattice(6, 0.02, 2, true), cfg)
		s.AddObserver(sim.ObserverFunc(func(st *sim.Step) {
			bs := st.State.Bodies
			for i := range bs {
				for j := i + 1; j < len(bs); j++ {
					Expect(bs[i].Gap(bs[j])).To(BeNumerically(">=", -1e-9),
						"bodies %d and %d at step %d", bs[i].ID, bs[j].ID, st.Index)
				}
			}
		}))
		_, err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
	})

	It("conserves momentum in body-body collisions", func() {
		s := mustSim(lattice(5, 0.02, 3, false), cfg)
		checked := 0
		prev := s.Current()
		s.AddObserver(sim.ObserverFunc(func(st *sim.Step) {
			for _, e := range st.Events {
				if e.Other.Kind != collision.KindBody {
					continue
				}
				a0, _ := prev.Body(e.Body)
				b0, _ := prev.Body(e.Other.ID)
				a1, _ := st.State.Body(e.Body)
				b1, _ := st.State.Body(e.Other.ID)
				before := a0.Momentum().Add(b0.Momentum())
				after := a1.Momentum().Add(b1.Momentum())
				Expect(after.X).To(BeNumerically("~", before.X, 1e-12))
				Expect(after.Y).To(BeNumerically("~", before.Y, 1e-12))
				checked++
			}
			prev = st.State
		}))
		_, err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(checked).To(BeNumerically(">", 0))
	})

	It("accumulates exactly the transferred momentum", func() {
		s := mustSim(lattice(6, 0.01, 4, true), cfg)
		sums := make(map[accum.Surface]float64)
		counts := make(map[accum.Surface]int)
		s.AddObserver(sim.ObserverFunc(func(st *sim.Step) {
			for _, tr := range st.Transfers {
				sums[tr.Surface] += tr.Momentum
				counts[tr.Surface]++
			}
		}))
		_, err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		surfaces := s.Ledger().Surfaces()
		Expect(surfaces).To(HaveLen(5))
		for _, surface := range surfaces {
			count, _, momentum := s.Ledger().Totals(surface)
			Expect(count).To(Equal(counts[surface]), surface.String())
			Expect(momentum).To(BeNumerically("~", sums[surface], 1e-9), surface.String())
		}
		n := len(s.CollisionStats(accum.Wall(boundary.Top)))
		for _, surface := range surfaces {
			Expect(s.CollisionStats(surface)).To(HaveLen(n))
		}
	})

	It("replays bit-identically", func() {
		run := func(workers int) *sim.State {
			c := cfg
			c.MaxSteps = 400
			c.Workers = workers
			s := mustSim(lattice(12, 0.005, 5, false), c)
			res, err := s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			return res.Final
		}
		first := run(1)
		Expect(run(1).Bodies).To(Equal(first.Bodies))
		Expect(run(4).Bodies).To(Equal(first.Bodies))
	})

	It("keeps every body inside the box", func() {
		s := mustSim(lattice(5, 0.03, 6, true), cfg)
		res, err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		for _, b := range res.Final.Bodies {
			Expect(b.Pos.X).To(BeNumerically(">=", b.Radius-1e-9))
			Expect(b.Pos.X).To(BeNumerically("<=", 1-b.Radius+1e-9))
			Expect(b.Pos.Y).To(BeNumerically(">=", b.Radius-1e-9))
			Expect(b.Pos.Y).To(BeNumerically("<=", 1-b.Radius+1e-9))
		}
	})

	DescribeTable("tie-break policies conserve energy",
		func(policy sim.TieBreak) {
			cfg.TieBreak = policy
			s := mustSim(lattice(4, 0.01, 7, false), cfg)
			e0 := s.Current().KineticEnergy()
			res, err := s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Final.KineticEnergy()).To(BeNumerically("~", e0, 1e-9*e0))
		},
		Entry("lowest id", sim.TieLowestID),
		Entry("combined", sim.TieCombined),
	)
})
