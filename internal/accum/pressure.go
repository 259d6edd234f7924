package accum

// Sample is the pressure over one bin.
type Sample struct {
	Time     float64
	Pressure float64
	Count    int
}

// Pressure converts bins to momentum flux per unit contact length:
// momentum_sum / (width * perimeter).
func Pressure(bins []Bin, width, perimeter float64) []Sample {
	out := make([]Sample, 0, len(bins))
	if width <= 0 || perimeter <= 0 {
		return out
	}
	for _, b := range bins {
		out = append(out, Sample{
			Time:     b.Start,
			Pressure: b.Momentum / (width * perimeter),
			Count:    b.Count,
		})
	}
	return out
}

// MeanPressure averages samples, optionally skipping the leading bins of
// the transient and the trailing, still incomplete bin.
func MeanPressure(samples []Sample, skip int, dropLast bool) float64 {
	end := len(samples)
	if dropLast && end > 0 {
		end--
	}
	if skip >= end {
		return 0
	}
	sum := 0.0
	for _, s := range samples[skip:end] {
		sum += s.Pressure
	}
	return sum / float64(end-skip)
}
