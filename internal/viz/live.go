package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/edmd/internal/accum"
	"github.com/san-kum/edmd/internal/analysis"
	"github.com/san-kum/edmd/internal/sim"
)

const (
	width         = 60
	height        = 24
	trailCapacity = 300
	maxPerTick    = 4096
)

type TickMsg time.Time

// Factory builds a fresh simulator; the viewer calls it again on reset.
type Factory func() (*sim.Simulator, error)

type Options struct {
	Title        string
	StepsPerTick int
	// Track is the body whose path is drawn; negative disables the trail.
	Track int
	Theme string
	FPS   int
}

// Model drives a simulator from tea ticks and renders the box as braille.
type Model struct {
	factory      Factory
	sim          *sim.Simulator
	opts         Options
	canvas       *Canvas
	theme        Theme
	styles       styles
	running      bool
	done         bool
	err          error
	stepsPerTick int
	trail        []analysis.Sample
	pressure     []float64
	energy0      float64
	showHelp     bool
}

func NewModel(factory Factory, opts Options) (Model, error) {
	if opts.StepsPerTick <= 0 {
		opts.StepsPerTick = 1
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	theme := GetTheme(opts.Theme)
	m := Model{
		factory:      factory,
		opts:         opts,
		canvas:       NewCanvas(width, height),
		theme:        theme,
		styles:       newStyles(theme),
		running:      true,
		stepsPerTick: opts.StepsPerTick,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "t":
			m.theme = m.theme.Next()
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerTick)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) reset() error {
	s, err := m.factory()
	if err != nil {
		return err
	}
	m.sim = s
	m.done, m.err = false, nil
	m.trail = m.trail[:0]
	m.pressure = nil
	m.energy0 = s.Current().KineticEnergy()
	m.record()
	return nil
}

// advance executes up to n events and refreshes the derived series.
func (m *Model) advance(n int) {
	if m.done {
		return
	}
	limit := m.sim.Config().MaxSteps
	for i := 0; i < n; i++ {
		if limit > 0 && m.sim.Steps() >= limit {
			m.done = true
			break
		}
		if _, err := m.sim.Step(); err != nil {
			m.done = true
			if !errors.Is(err, sim.ErrNoEvent) {
				m.err = err
			}
			break
		}
		m.record()
	}
	m.pressure = WallPressure(m.sim)
}

func (m *Model) record() {
	if m.opts.Track < 0 {
		return
	}
	st := m.sim.Current()
	b, ok := st.Body(m.opts.Track)
	if !ok || b.Static {
		return
	}
	m.trail = append(m.trail, analysis.Sample{T: st.Time, X: b.Pos.X, Y: b.Pos.Y, VX: b.Vel.X, VY: b.Vel.Y})
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
}

// WallPressure returns the pressure on the whole box perimeter for every
// completed bin.
func WallPressure(s *sim.Simulator) []float64 {
	ledger := s.Ledger()
	box := s.Current().Box
	perimeter := box.Perimeter()
	var sums []float64
	for _, w := range accum.Walls() {
		bins, ok := ledger.Stats(w)
		if !ok {
			continue
		}
		if sums == nil {
			sums = make([]float64, len(bins))
		}
		for i := 0; i < len(bins) && i < len(sums); i++ {
			sums[i] += bins[i].Momentum
		}
	}
	if len(sums) < 2 {
		return nil
	}
	out := make([]float64, len(sums)-1)
	for i := range out {
		out[i] = sums[i] / (ledger.Width() * perimeter)
	}
	return out
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.styles.alert.Render("ERROR")
	case m.done:
		return m.styles.status.Render("DONE")
	case !m.running:
		return m.styles.status.Render("PAUSED")
	}
	return m.styles.status.Render("RUNNING")
}

func (m Model) View() string {
	m.canvas.Clear()
	st := m.sim.Current()
	p := RenderState(m.canvas, st)
	RenderTrail(m.canvas, p, m.trail)
	canvasView := m.styles.canvas.Render(m.canvas.String())

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "edmd"
	}
	s.WriteString(m.styles.header.Render(strings.ToUpper(title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.pressure) > 1 {
		chart := asciigraph.Plot(m.pressure, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Wall pressure"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.4f", st.Time))
	row("Events", fmt.Sprintf("%d", m.sim.Steps()))
	row("Bodies", fmt.Sprintf("%d (%d moving)", len(st.Bodies), st.Movable()))
	energy := st.KineticEnergy()
	row("Energy", fmt.Sprintf("%.6g", energy))
	if m.energy0 > 0 {
		row("Drift", fmt.Sprintf("%.2e", (energy-m.energy0)/m.energy0))
	}
	row("Speed", fmt.Sprintf("%d ev/tick", m.stepsPerTick))
	if limit := m.sim.Config().MaxSteps; limit > 0 {
		row("Progress", m.styles.ProgressBar(float64(m.sim.Steps())/float64(limit), 20))
	}
	if len(m.trail) > 1 {
		speeds := make([]float64, len(m.trail))
		for i, t := range m.trail {
			speeds[i] = t.VX*t.VX + t.VY*t.VY
		}
		row("Track v²", Sparkline(speeds, 24))
	}
	if m.err != nil {
		s.WriteString("\n" + m.styles.alert.Render(m.err.Error()) + "\n")
	}
	s.WriteString(m.styles.help.Render("SP:Pause N:Step R:Reset Q:Quit\n+/-:Speed T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space/P  pause or resume
  N        single event while paused
  R        rebuild the initial configuration
  + / -    double or halve events per frame
  T        cycle themes
  Q        quit
`

// Run starts the viewer on the terminal.
func Run(factory Factory, opts Options) error {
	m, err := NewModel(factory, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
