package analysis

import (
	"strings"

	"github.com/san-kum/edmd/internal/storage"
)

// MeanPressure averages the pressure of one surface, skipping the first
// skip bins and the trailing, incomplete bin.
func MeanPressure(rows []storage.PressureRow, surface string, skip int) float64 {
	series := storage.Series(rows, surface)
	end := len(series) - 1
	if skip >= end {
		return 0
	}
	sum := 0.0
	for _, r := range series[skip:end] {
		sum += r.Pressure
	}
	return sum / float64(end-skip)
}

// WallPressure is the momentum-weighted pressure over all four walls: total
// wall momentum divided by the total wall length and the elapsed bins.
func WallPressure(rows []storage.PressureRow, binDt, width, height float64, skip int) float64 {
	bins := make(map[int]bool)
	momentum := 0.0
	last := -1
	for _, r := range rows {
		if r.Bin > last {
			last = r.Bin
		}
	}
	for _, r := range rows {
		if !strings.HasPrefix(r.Surface, "wall:") || r.Bin < skip || r.Bin >= last {
			continue
		}
		bins[r.Bin] = true
		momentum += r.Momentum
	}
	if len(bins) == 0 || binDt <= 0 {
		return 0
	}
	return momentum / (float64(len(bins)) * binDt * 2 * (width + height))
}
