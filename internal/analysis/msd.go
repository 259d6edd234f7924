package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/edmd/internal/storage"
)

// Sample is the recorded state of one body at one instant.
type Sample struct {
	T, X, Y, VX, VY float64
}

// At extrapolates the sample along its straight free flight.
func (s Sample) At(t float64) (x, y float64) {
	dt := t - s.T
	return s.X + s.VX*dt, s.Y + s.VY*dt
}

// Track extracts the samples of one body in time order.
func Track(rows []storage.Row, id int) []Sample {
	var out []Sample
	for _, r := range rows {
		if r.ID == id {
			out = append(out, Sample{T: r.Time, X: r.X, Y: r.Y, VX: r.VX, VY: r.VY})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}

// Point is a (time, value) pair.
type Point struct {
	T, V float64
}

// MSD samples the squared displacement from the first position on a grid
// of step dt. Between records the body moves in a straight line, so each
// grid instant is reconstructed from the latest preceding sample. The
// reconstruction is exact only when every event was recorded.
func MSD(track []Sample, dt float64) []Point {
	if len(track) == 0 || dt <= 0 {
		return nil
	}
	x0, y0 := track[0].X, track[0].Y
	end := track[len(track)-1].T
	n := int(math.Floor((end-track[0].T)/dt)) + 1

	out := make([]Point, 0, n)
	k := 0
	for i := 0; i < n; i++ {
		t := track[0].T + float64(i)*dt
		for k+1 < len(track) && track[k+1].T <= t {
			k++
		}
		x, y := track[k].At(t)
		dx, dy := x-x0, y-y0
		out = append(out, Point{T: t - track[0].T, V: dx*dx + dy*dy})
	}
	return out
}

// AverageMSD averages several MSD curves point by point over their common
// length. It is used to combine the runs of an ensemble.
func AverageMSD(curves [][]Point) []Point {
	if len(curves) == 0 {
		return nil
	}
	n := len(curves[0])
	for _, c := range curves {
		if len(c) < n {
			n = len(c)
		}
	}
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, c := range curves {
			sum += c[i].V
		}
		out[i] = Point{T: curves[0][i].T, V: sum / float64(len(curves))}
	}
	return out
}
