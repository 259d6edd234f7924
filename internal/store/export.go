package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/edmd/internal/accum"
	"github.com/san-kum/edmd/internal/storage"
)

type Series struct {
	Surface      string    `json:"surface"`
	Times        []float64 `json:"times"`
	Counts       []int     `json:"counts"`
	Unique       int       `json:"unique"`
	Momentum     []float64 `json:"momentum"`
	Pressure     []float64 `json:"pressure"`
	MeanPressure float64   `json:"mean_pressure"`
}

type ExportData struct {
	Run      storage.RunMetadata `json:"run"`
	Series   []Series            `json:"series"`
	Metrics  map[string]float64  `json:"metrics"`
	Collided int                 `json:"collisions"`
}

// Build groups pressure rows by surface, keeping first-seen order. The
// trailing bin is still filling and is left out of the mean.
func Build(meta storage.RunMetadata, rows []storage.PressureRow) ExportData {
	data := ExportData{Run: meta, Metrics: meta.Metrics}
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.Surface]
		if !ok {
			i = len(data.Series)
			index[r.Surface] = i
			data.Series = append(data.Series, Series{Surface: r.Surface})
		}
		s := &data.Series[i]
		s.Times = append(s.Times, r.Time)
		s.Counts = append(s.Counts, r.Count)
		s.Unique += r.Unique
		s.Momentum = append(s.Momentum, r.Momentum)
		s.Pressure = append(s.Pressure, r.Pressure)
		data.Collided += r.Count
	}
	for i := range data.Series {
		s := &data.Series[i]
		samples := make([]accum.Sample, len(s.Pressure))
		for j, p := range s.Pressure {
			samples[j] = accum.Sample{Time: s.Times[j], Pressure: p, Count: s.Counts[j]}
		}
		s.MeanPressure = accum.MeanPressure(samples, 0, true)
	}
	return data
}

func encode(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return encode(file, data)
}

func ExportJSONStdout(data ExportData) error {
	return encode(os.Stdout, data)
}
