package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/edmd/internal/accum"
	"github.com/san-kum/edmd/internal/sim"
)

func ff(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// SaveStatic writes the box side, the body count and the per-body mass and
// radius.
func (r *Run) SaveStatic(st *sim.State) error {
	f, err := os.Create(r.path(staticFile))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{
		{strconv.FormatFloat(st.Box.Width, 'g', -1, 64)},
		{strconv.Itoa(len(st.Bodies))},
		{"id", "mass", "radius"},
	}
	for _, b := range st.Bodies {
		rows = append(rows, []string{
			strconv.Itoa(b.ID),
			strconv.FormatFloat(b.Mass, 'g', -1, 64),
			strconv.FormatFloat(b.Radius, 'g', -1, 64),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

// Recorder streams every n-th state to particles.csv. It buffers rows and
// flushes once maxBuffered states are pending.
type Recorder struct {
	file        *os.File
	buf         *bufio.Writer
	w           *csv.Writer
	every       int
	pending     int
	maxBuffered int
	written     int
	err         error
}

const defaultMaxBuffered = 100

func (r *Run) Recorder(every int) (*Recorder, error) {
	if every < 1 {
		return nil, fmt.Errorf("storage: save interval must be at least 1, got %d", every)
	}
	f, err := os.Create(r.path(particlesFile))
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	rec := &Recorder{
		file:        f,
		buf:         buf,
		w:           csv.NewWriter(buf),
		every:       every,
		maxBuffered: defaultMaxBuffered,
	}
	if err := rec.w.Write([]string{"time", "id", "x", "y", "vx", "vy"}); err != nil {
		f.Close()
		return nil, err
	}
	return rec, nil
}

// Write appends one state unconditionally.
func (rec *Recorder) Write(st *sim.State) error {
	if rec.err != nil {
		return rec.err
	}
	t := ff(st.Time)
	for _, b := range st.Bodies {
		row := []string{t, strconv.Itoa(b.ID), ff(b.Pos.X), ff(b.Pos.Y), ff(b.Vel.X), ff(b.Vel.Y)}
		if err := rec.w.Write(row); err != nil {
			rec.err = err
			return err
		}
	}
	rec.written++
	rec.pending++
	if rec.pending >= rec.maxBuffered {
		return rec.Flush()
	}
	return nil
}

func (rec *Recorder) OnStep(st *sim.Step) {
	if st.Index%rec.every != 0 {
		return
	}
	rec.Write(st.State)
}

// Written is the number of states recorded so far.
func (rec *Recorder) Written() int { return rec.written }

func (rec *Recorder) Err() error { return rec.err }

func (rec *Recorder) Flush() error {
	rec.w.Flush()
	if err := rec.w.Error(); err != nil {
		rec.err = err
		return err
	}
	if err := rec.buf.Flush(); err != nil {
		rec.err = err
		return err
	}
	rec.pending = 0
	return nil
}

func (rec *Recorder) Close() error {
	ferr := rec.Flush()
	cerr := rec.file.Close()
	if rec.err != nil {
		return rec.err
	}
	if ferr != nil {
		return ferr
	}
	return cerr
}

// PressureSeries is the accumulated record of one surface.
type PressureSeries struct {
	Surface accum.Surface
	Bins    []accum.Bin
	Samples []accum.Sample
}

// CollectPressure gathers every accumulated surface of a simulator.
func CollectPressure(s *sim.Simulator) ([]PressureSeries, error) {
	var out []PressureSeries
	for _, surface := range s.Ledger().Surfaces() {
		samples, err := s.Pressure(surface)
		if err != nil {
			return nil, err
		}
		out = append(out, PressureSeries{
			Surface: surface,
			Bins:    s.CollisionStats(surface),
			Samples: samples,
		})
	}
	return out, nil
}

func (r *Run) SavePressure(series []PressureSeries) error {
	f, err := os.Create(r.path(pressureFile))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"surface", "bin", "time", "count", "unique", "momentum", "pressure"}); err != nil {
		return err
	}
	for _, ps := range series {
		for i, b := range ps.Bins {
			p := 0.0
			if i < len(ps.Samples) {
				p = ps.Samples[i].Pressure
			}
			row := []string{
				ps.Surface.String(),
				strconv.Itoa(b.Index),
				strconv.FormatFloat(b.Start, 'g', -1, 64),
				strconv.Itoa(b.Count),
				strconv.Itoa(b.Unique),
				strconv.FormatFloat(b.Momentum, 'g', -1, 64),
				strconv.FormatFloat(p, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// Row is one line of particles.csv.
type Row struct {
	Time float64
	ID   int
	X    float64
	Y    float64
	VX   float64
	VY   float64
}

// Frame groups the rows sharing a timestamp.
type Frame struct {
	Time float64
	Rows []Row
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Store) LoadTrajectory(runID string) ([]Row, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, particlesFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 6 {
			return nil, fmt.Errorf("storage: %s line %d: want 6 fields, got %d", particlesFile, i+2, len(record))
		}
		id, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", particlesFile, i+2, err)
		}
		v, err := parseFloats([]string{record[0], record[2], record[3], record[4], record[5]})
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", particlesFile, i+2, err)
		}
		rows = append(rows, Row{Time: v[0], ID: id, X: v[1], Y: v[2], VX: v[3], VY: v[4]})
	}
	return rows, nil
}

// Frames groups consecutive rows by time.
func Frames(rows []Row) []Frame {
	var frames []Frame
	for _, r := range rows {
		if n := len(frames); n > 0 && frames[n-1].Time == r.Time {
			frames[n-1].Rows = append(frames[n-1].Rows, r)
			continue
		}
		frames = append(frames, Frame{Time: r.Time, Rows: []Row{r}})
	}
	return frames
}

// Static is the content of static.csv.
type Static struct {
	L      float64
	N      int
	Mass   map[int]float64
	Radius map[int]float64
}

func (s *Store) LoadStatic(runID string) (*Static, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, staticFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 3 {
		return nil, fmt.Errorf("storage: %s is truncated", staticFile)
	}
	l, err := strconv.ParseFloat(records[0][0], 64)
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", staticFile, err)
	}
	n, err := strconv.Atoi(records[1][0])
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", staticFile, err)
	}
	st := &Static{L: l, N: n, Mass: make(map[int]float64), Radius: make(map[int]float64)}
	for _, record := range records[3:] {
		if len(record) != 3 {
			continue
		}
		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("storage: %s: %w", staticFile, err)
		}
		v, err := parseFloats(record[1:])
		if err != nil {
			return nil, fmt.Errorf("storage: %s: %w", staticFile, err)
		}
		st.Mass[id] = v[0]
		st.Radius[id] = v[1]
	}
	return st, nil
}

// PressureRow is one line of pressure.csv.
type PressureRow struct {
	Surface  string
	Bin      int
	Time     float64
	Count    int
	Unique   int
	Momentum float64
	Pressure float64
}

func (s *Store) LoadPressure(runID string) ([]PressureRow, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, pressureFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []PressureRow{}, nil
	}
	rows := make([]PressureRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 7 {
			return nil, fmt.Errorf("storage: %s line %d: want 7 fields, got %d", pressureFile, i+2, len(record))
		}
		bin, err1 := strconv.Atoi(record[1])
		count, err2 := strconv.Atoi(record[3])
		unique, err3 := strconv.Atoi(record[4])
		v, err4 := parseFloats([]string{record[2], record[5], record[6]})
		for _, err := range []error{err1, err2, err3, err4} {
			if err != nil {
				return nil, fmt.Errorf("storage: %s line %d: %w", pressureFile, i+2, err)
			}
		}
		rows = append(rows, PressureRow{
			Surface:  record[0],
			Bin:      bin,
			Time:     v[0],
			Count:    count,
			Unique:   unique,
			Momentum: v[1],
			Pressure: v[2],
		})
	}
	return rows, nil
}

// Series selects the pressure rows of one surface in bin order.
func Series(rows []PressureRow, surface string) []PressureRow {
	var out []PressureRow
	for _, r := range rows {
		if r.Surface == surface {
			out = append(out, r)
		}
	}
	return out
}
