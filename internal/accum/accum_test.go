package accum

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/edmd/internal/boundary"
)

func TestNewAccumulator_Width(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		ok    bool
	}{
		{"positive", 0.5, true},
		{"zero", 0, false},
		{"negative", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccumulator(tt.width)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrBinWidth) {
				t.Fatalf("want ErrBinWidth, got %v", err)
			}
		})
	}
}

func TestAccumulator_ZeroFillsGaps(t *testing.T) {
	g := NewWithT(t)
	a, err := NewAccumulator(0.5)
	g.Expect(err).NotTo(HaveOccurred())

	a.Record(0.1, 2, 1)
	a.Record(1.75, 4, 2)

	bins := a.Bins()
	g.Expect(bins).To(HaveLen(4))
	g.Expect(bins[0]).To(Equal(Bin{Index: 0, Start: 0, Count: 1, Unique: 1, Momentum: 2}))
	g.Expect(bins[1]).To(Equal(Bin{Index: 1, Start: 0.5}))
	g.Expect(bins[2]).To(Equal(Bin{Index: 2, Start: 1}))
	g.Expect(bins[3]).To(Equal(Bin{Index: 3, Start: 1.5, Count: 1, Unique: 1, Momentum: 4}))
}

func TestAccumulator_BinBoundaryBelongsToNextBin(t *testing.T) {
	g := NewWithT(t)
	a, _ := NewAccumulator(0.25)
	g.Expect(a.BinIndex(0.25)).To(Equal(1))
	g.Expect(a.BinIndex(0.2499)).To(Equal(0))
	g.Expect(a.BinIndex(0)).To(Equal(0))
}

func TestAccumulator_UniqueCountsFirstContactOnly(t *testing.T) {
	g := NewWithT(t)
	a, _ := NewAccumulator(1)
	a.Record(0.1, 1, 7)
	a.Record(0.2, 1, 7)
	a.Record(1.5, 1, 7)
	a.Record(1.6, 1, 8)

	bins := a.Bins()
	g.Expect(bins[0].Count).To(Equal(2))
	g.Expect(bins[0].Unique).To(Equal(1))
	g.Expect(bins[1].Count).To(Equal(2))
	g.Expect(bins[1].Unique).To(Equal(1))

	count, unique, momentum := a.Totals()
	g.Expect(count).To(Equal(4))
	g.Expect(unique).To(Equal(2))
	g.Expect(momentum).To(BeNumerically("~", 4, 1e-12))
}

func TestAccumulator_BinsIsCopy(t *testing.T) {
	g := NewWithT(t)
	a, _ := NewAccumulator(1)
	a.Record(0.5, 3, 1)
	bins := a.Bins()
	bins[0].Momentum = 100
	g.Expect(a.Bins()[0].Momentum).To(Equal(3.0))
}

func TestLedger_ExtendsEverySurface(t *testing.T) {
	g := NewWithT(t)
	l, err := NewLedger(0.5)
	g.Expect(err).NotTo(HaveOccurred())
	for _, s := range Walls() {
		l.Track(s)
	}
	l.Track(Obstacle(0))

	g.Expect(l.Record(Wall(boundary.Top), 1.2, 2, 3)).To(Succeed())
	g.Expect(l.Record(Obstacle(0), 0.1, 0.5, 4)).To(Succeed())

	for _, s := range l.Surfaces() {
		bins, ok := l.Stats(s)
		g.Expect(ok).To(BeTrue())
		g.Expect(bins).To(HaveLen(3), s.String())
	}
	top, _ := l.Stats(Wall(boundary.Top))
	g.Expect(top[2].Momentum).To(Equal(2.0))
	obs, _ := l.Stats(Obstacle(0))
	g.Expect(obs[0].Momentum).To(Equal(0.5))
}

func TestLedger_LateTrackCatchesUp(t *testing.T) {
	g := NewWithT(t)
	l, _ := NewLedger(1)
	l.Track(Wall(boundary.Left))
	g.Expect(l.Record(Wall(boundary.Left), 4.5, 1, 1)).To(Succeed())
	l.Track(Obstacle(3))
	bins, _ := l.Stats(Obstacle(3))
	g.Expect(bins).To(HaveLen(5))
}

func TestLedger_UntrackedSurface(t *testing.T) {
	g := NewWithT(t)
	l, _ := NewLedger(1)
	g.Expect(l.Record(Obstacle(2), 0, 1, 1)).NotTo(Succeed())
	_, ok := l.Stats(Obstacle(2))
	g.Expect(ok).To(BeFalse())
	g.Expect(l.Tracked(Obstacle(2))).To(BeFalse())
}

func TestLedger_TrackIsIdempotent(t *testing.T) {
	g := NewWithT(t)
	l, _ := NewLedger(1)
	l.Track(Obstacle(0))
	l.Record(Obstacle(0), 0.5, 1, 1)
	l.Track(Obstacle(0))
	g.Expect(l.Surfaces()).To(HaveLen(1))
	count, _, _ := l.Totals(Obstacle(0))
	g.Expect(count).To(Equal(1))
}

func TestPressure(t *testing.T) {
	g := NewWithT(t)
	bins := []Bin{
		{Index: 0, Start: 0, Momentum: 4},
		{Index: 1, Start: 0.5, Momentum: 0},
		{Index: 2, Start: 1, Momentum: 1},
	}
	s := Pressure(bins, 0.5, 2)
	g.Expect(s).To(HaveLen(3))
	g.Expect(s[0].Pressure).To(BeNumerically("~", 4, 1e-12))
	g.Expect(s[1].Pressure).To(BeZero())
	g.Expect(s[2].Pressure).To(BeNumerically("~", 1, 1e-12))
	g.Expect(s[2].Time).To(Equal(1.0))

	g.Expect(MeanPressure(s, 0, false)).To(BeNumerically("~", 5.0/3, 1e-12))
	g.Expect(MeanPressure(s, 1, true)).To(BeZero())
	g.Expect(MeanPressure(s, 5, false)).To(BeZero())
	g.Expect(Pressure(bins, 0, 1)).To(BeEmpty())
}

func TestSurfaceString(t *testing.T) {
	tests := []struct {
		s    Surface
		want string
	}{
		{Wall(boundary.Bottom), "wall:bottom"},
		{Wall(boundary.Left), "wall:left"},
		{Obstacle(0), "body:0"},
		{Obstacle(12), "body:12"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			back, err := ParseSurface(tt.want)
			if err != nil || back != tt.s {
				t.Errorf("ParseSurface(%q) = %v, %v", tt.want, back, err)
			}
		})
	}
	if s, err := ParseSurface("top"); err != nil || s != Wall(boundary.Top) {
		t.Errorf("bare side: %v, %v", s, err)
	}
	for _, bad := range []string{"floor", "wall:floor", "body:x", "pipe:1"} {
		if _, err := ParseSurface(bad); err == nil {
			t.Errorf("ParseSurface(%q) should fail", bad)
		}
	}
}

func TestAccumulator_BinIndexRange(t *testing.T) {
	g := NewWithT(t)
	a, _ := NewAccumulator(0.1)

	_, err := a.BinIndex(math.NaN())
	g.Expect(err).To(MatchError(ErrBinRange))
	_, err = a.BinIndex(math.Inf(1))
	g.Expect(err).To(MatchError(ErrBinRange))
	_, err = a.BinIndex(4.9e299)
	g.Expect(err).To(MatchError(ErrBinRange))
	_, err = a.BinIndex(MaxBins * 0.1001)
	g.Expect(err).To(MatchError(ErrBinRange))

	idx, err := a.BinIndex((MaxBins - 0.5) * 0.1)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(idx).To(Equal(MaxBins - 1))

	g.Expect(a.Record(1e12, 1, 1)).To(MatchError(ErrBinRange))
	g.Expect(a.Bins()).To(HaveLen(1))
}

func TestLedger_AdvancePastLimitLeavesSurfaces(t *testing.T) {
	g := NewWithT(t)
	l, _ := NewLedger(0.1)
	for _, s := range Walls() {
		l.Track(s)
	}
	g.Expect(l.Advance(0.35)).To(Succeed())
	g.Expect(l.Advance(49000)).To(MatchError(ErrBinRange))
	g.Expect(l.Record(Wall(boundary.Left), 49000, 1, 1)).To(MatchError(ErrBinRange))

	for _, s := range l.Surfaces() {
		bins, _ := l.Stats(s)
		g.Expect(bins).To(HaveLen(4), s.String())
	}
	count, _, _ := l.Totals(Wall(boundary.Left))
	g.Expect(count).To(BeZero())
}
