package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/geom"
)

func benchState(b *testing.B, side int) *State {
	rng := rand.New(rand.NewSource(42))
	spacing := 1.0 / float64(side+1)
	var bodies []body.Body
	for i := 1; i <= side; i++ {
		for j := 1; j <= side; j++ {
			a := rng.Float64() * 2 * math.Pi
			bodies = append(bodies, body.New(len(bodies)+1,
				geom.V(float64(i)*spacing, float64(j)*spacing),
				geom.V(math.Cos(a), math.Sin(a)), 0.002, 1))
		}
	}
	bx, _ := boundary.Square(1)
	st, err := InitialState(bodies, bx)
	if err != nil {
		b.Fatal(err)
	}
	return st
}

func benchmarkSearch(b *testing.B, side, workers int) {
	st := benchState(b, side)
	cfg := DefaultConfig()
	cfg.Workers = workers
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NextEvents(st, nil, cfg)
	}
}

func BenchmarkNextEvents100(b *testing.B)          { benchmarkSearch(b, 10, 1) }
func BenchmarkNextEvents400(b *testing.B)          { benchmarkSearch(b, 20, 1) }
func BenchmarkNextEvents400Parallel(b *testing.B)  { benchmarkSearch(b, 20, 4) }
func BenchmarkNextEvents1600Parallel(b *testing.B) { benchmarkSearch(b, 40, 4) }

func BenchmarkStep(b *testing.B) {
	st := benchState(b, 15)
	s, err := New(st, DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Step(); err != nil {
			b.Fatal(err)
		}
	}
}
