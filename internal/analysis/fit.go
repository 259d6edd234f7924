package analysis

import (
	"errors"
	"math"
)

var ErrTooFewPoints = errors.New("analysis: need at least two distinct points")

// Fit is a least-squares line v = Slope*t + Intercept.
type Fit struct {
	Slope     float64
	Intercept float64
	R2        float64
}

func LinearFit(points []Point) (Fit, error) {
	n := float64(len(points))
	if len(points) < 2 {
		return Fit{}, ErrTooFewPoints
	}
	var st, sv float64
	for _, p := range points {
		st += p.T
		sv += p.V
	}
	mt, mv := st/n, sv/n

	var stt, stv, svv float64
	for _, p := range points {
		dt, dv := p.T-mt, p.V-mv
		stt += dt * dt
		stv += dt * dv
		svv += dv * dv
	}
	if stt == 0 {
		return Fit{}, ErrTooFewPoints
	}

	slope := stv / stt
	fit := Fit{Slope: slope, Intercept: mv - slope*mt, R2: 1}
	if svv > 0 {
		fit.R2 = math.Min(1, stv*stv/(stt*svv))
	}
	return fit, nil
}

// Diffusion fits the MSD curve and returns D = slope/2.
func Diffusion(points []Point) (float64, Fit, error) {
	fit, err := LinearFit(points)
	if err != nil {
		return 0, Fit{}, err
	}
	return fit.Slope / 2, fit, nil
}
