package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/spacecore/internal/scenario"
	"github.com/san-kum/spacecore/internal/space"
)

const (
	canvasWidth    = 60
	canvasHeight   = 24
	historyLen     = 300
	maxStepsPerTic = 1024
	frameInterval  = time.Second / 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// WatchModel steps a scenario.Runner on every frame and draws the ship's
// surroundings.
type WatchModel struct {
	runner  *scenario.Runner
	canvas  *Canvas
	camera  *Camera
	theme   Theme
	styles  Styles
	markers []Marker

	running  bool
	steps    int
	altitude []float64
	last     scenario.Sample
	err      error
}

// NewWatch prepares a view of r. The camera starts fitted to the ship's
// current frame.
func NewWatch(r *scenario.Runner, theme string) WatchModel {
	m := WatchModel{
		runner:  r,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		camera:  NewCamera(fitScale(r)),
		theme:   GetTheme(theme),
		running: true,
		steps:   1,
	}
	m.styles = NewStyles(m.theme)
	m.last = r.Sample()
	m.draw()
	return m
}

// fitScale frames the ship's orbit around its dominant body, or its
// whole frame when nothing dominates.
func fitScale(r *scenario.Runner) float64 {
	s, sh := r.Space(), r.Ship()
	if f := s.Frame(sh.Frame()); f != nil {
		if planet := s.DominantMass(f.ID); planet != nil {
			d := sh.Position().Sub(s.PositionRelTo(planet, f.ID)).Len()
			return math.Max(1.5*d, 1e3)
		}
		if f.Radius > 0 && !math.IsInf(f.Radius, 1) {
			return f.Radius
		}
	}
	return 1e7
}

func (m WatchModel) Init() tea.Cmd { return tick() }

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance(1)
			}
		case ">", ".":
			m.steps = min(maxStepsPerTic, m.steps*2)
		case "<", ",":
			m.steps = max(1, m.steps/2)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "left", "h":
			m.camera.Rotate(-0.1, 0)
		case "right", "l":
			m.camera.Rotate(0.1, 0)
		case "up", "k":
			m.camera.Rotate(0, 0.1)
		case "down", "j":
			m.camera.Rotate(0, -0.1)
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		}
		m.draw()
	case TickMsg:
		if m.running {
			m.advance(m.steps)
		}
		m.draw()
		return m, tick()
	}
	return m, nil
}

func (m *WatchModel) advance(n int) {
	for i := 0; i < n && m.err == nil && !m.runner.Done(); i++ {
		if err := m.runner.Step(); err != nil {
			m.err = err
		}
	}
	m.last = m.runner.Sample()
	if m.runner.Ship().IsDead() {
		return
	}
	m.altitude = append(m.altitude, m.last.Altitude/1e3)
	if len(m.altitude) > historyLen {
		m.altitude = m.altitude[len(m.altitude)-historyLen:]
	}
}

func (m *WatchModel) draw() {
	sh := m.runner.Ship()
	frame := sh.Frame()
	if frame == space.NoFrame {
		m.canvas.Clear()
		m.markers = nil
		return
	}
	m.markers = DrawSkyMap(m.canvas, m.runner.Space(), frame, m.camera, sh)
}

func (m WatchModel) status() string {
	switch {
	case m.err != nil:
		return m.styles.Alert.Render("HALTED")
	case m.runner.Ship().IsDead():
		return m.styles.Alert.Render("SHIP LOST")
	case m.runner.Space().Hyperspacing():
		return m.styles.Status.Render("HYPERSPACE")
	case m.runner.Done():
		return m.styles.Status.Render("FINISHED")
	case !m.running:
		return m.styles.Status.Render("PAUSED")
	}
	return m.styles.Status.Render(fmt.Sprintf("RUNNING x%d", m.steps))
}

func (m WatchModel) row(label, value string) string {
	return m.styles.Label.Render(label) + m.styles.Value.Render(value) + "\n"
}

func (m WatchModel) View() string {
	s := m.runner.Space()
	sh := m.runner.Ship()
	spec := sh.Spec()

	var b strings.Builder
	system := "(hyperspace)"
	if sys := s.System(); sys != nil {
		system = sys.Name
	}
	b.WriteString(m.styles.Header.Render(strings.ToUpper(system)) + "\n")
	b.WriteString(m.status() + "\n\n")

	if len(m.altitude) > 1 {
		b.WriteString(m.styles.Graph.Render(PlotSeries(m.altitude, "altitude (km)", 30, 4)) + "\n\n")
	}

	b.WriteString(m.row("Time", fmt.Sprintf("%.1fs", s.Time())))
	b.WriteString(m.row("Tick", fmt.Sprintf("%d", s.TickCount())))
	b.WriteString(m.row("Bodies", fmt.Sprintf("%d", s.NumBodies())))
	b.WriteString(m.row("Frame", m.last.Frame))
	b.WriteString(m.row("Altitude", fmt.Sprintf("%.1f km", m.last.Altitude/1e3)))
	b.WriteString(m.row("Speed", fmt.Sprintf("%.1f m/s", m.last.Speed)))
	b.WriteString(m.row("Hull", m.styles.Bar(ratio(sh.Hull(), spec.Hull), 16)))
	b.WriteString(m.row("Fuel", m.styles.Bar(ratio(sh.Fuel(), spec.FuelCapacity), 16)))
	if s.Hyperspacing() {
		b.WriteString(m.row("Jump", ProgressBar(s.HyperspaceProgress(), 16)))
	}
	if m.err != nil {
		b.WriteString("\n" + m.styles.Alert.Render(m.err.Error()) + "\n")
	}
	b.WriteString(m.styles.Help.Render("SP:Pause n:Step <>:Speed +-:Zoom\narrows:Rotate t:Theme q:Quit"))

	canvas := m.styles.Canvas.Render(m.canvas.String() + m.legend())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.styles.Panel.Render(b.String()))
}

// legend names the nearest few astro bodies on the map.
func (m WatchModel) legend() string {
	var names []string
	for i := len(m.markers) - 1; i >= 0 && len(names) < 3; i-- {
		if m.markers[i].Radius > 0 {
			names = append(names, m.markers[i].Label)
		}
	}
	return strings.Join(names, " · ")
}

func ratio(v, full float64) float64 {
	if full <= 0 {
		return 0
	}
	return v / full
}
