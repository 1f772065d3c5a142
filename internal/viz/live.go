package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vehiclelab/internal/physics"
	"github.com/san-kum/vehiclelab/internal/sim"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600
	trailCapacity   = 400
	tickInterval    = time.Second / 60
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a running engine from the bubbletea loop: one engine step
// per tick, with a top-down trail view and a speed chart.
type Model struct {
	engine     *sim.Engine
	params     sim.RunParams
	title      string
	canvas     *Canvas
	theme      Theme
	trails     map[string][]physics.Vec3
	speeds     []float64
	steps      int
	ticking    bool
	showHelp   bool
	err        error
	onComplete func(*sim.Result)
}

// NewModel starts a run on e with p unless one is already in progress.
// The engine must have a scenario and its vehicles set up.
func NewModel(e *sim.Engine, p sim.RunParams) (Model, error) {
	if s := e.State(); s != sim.Running && s != sim.Paused {
		if err := e.Run(p); err != nil {
			return Model{}, err
		}
	}
	// Init schedules the first tick.
	m := Model{
		engine:  e,
		params:  p,
		canvas:  NewCanvas(width, height),
		theme:   ThemeRoad,
		trails:  make(map[string][]physics.Vec3),
		speeds:  make([]float64, 0, historyCapacity),
		steps:   1,
		ticking: true,
	}
	if sc := e.Scenario(); sc != nil {
		m.title = sc.Name
	}
	m.observe()
	return m, nil
}

// WithStepsPerTick runs n engine steps per frame to fast-forward.
func (m Model) WithStepsPerTick(n int) Model {
	if n > 0 {
		m.steps = n
	}
	return m
}

func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

// OnComplete registers fn to receive the result each time a run completes.
func (m Model) OnComplete(fn func(*sim.Result)) Model {
	m.onComplete = fn
	return m
}

func (m Model) Engine() *sim.Engine { return m.engine }

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.togglePause()
		case "r":
			cmd := m.restart()
			return m, cmd
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.ticking = false
		if m.engine.State() == sim.Running {
			m.advance()
		}
		if m.engine.State() == sim.Completed {
			return m, nil
		}
		m.ticking = true
		return m, tick()
	}
	return m, nil
}

func (m *Model) togglePause() {
	var err error
	switch m.engine.State() {
	case sim.Running:
		err = m.engine.Pause()
	case sim.Paused:
		err = m.engine.Resume()
	}
	m.err = err
}

// restart resets the engine and runs the same parameters again. The tick
// loop stops after completion, so it is rearmed here.
func (m *Model) restart() tea.Cmd {
	m.engine.Reset()
	m.trails = make(map[string][]physics.Vec3)
	m.speeds = m.speeds[:0]
	m.err = m.engine.Run(m.params)
	m.observe()
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tick()
}

func (m *Model) advance() {
	for i := 0; i < m.steps; i++ {
		if !m.engine.Step() {
			return
		}
		m.observe()
		if m.engine.State() == sim.Completed {
			if m.onComplete != nil {
				res, err := m.engine.Result()
				if err != nil {
					m.err = err
				} else {
					m.onComplete(res)
				}
			}
			return
		}
	}
}

// observe appends the current body positions to the trails and the mean
// speed to the history.
func (m *Model) observe() {
	bodies := m.engine.Bodies()
	if len(bodies) == 0 {
		return
	}
	total := 0.0
	for _, b := range bodies {
		trail := append(m.trails[b.ID], b.Position)
		if len(trail) > trailCapacity {
			trail = trail[1:]
		}
		m.trails[b.ID] = trail
		total += b.Speed()
	}
	m.speeds = append(m.speeds, total/float64(len(bodies)))
	if len(m.speeds) > historyCapacity {
		m.speeds = m.speeds[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	var all []physics.Vec3
	for _, t := range m.trails {
		all = append(all, t...)
	}
	vp := FitViewport(all)
	for _, b := range m.engine.Bodies() {
		trail := m.trails[b.ID]
		for i := 1; i < len(trail); i++ {
			x0, y0 := vp.Project(m.canvas, trail[i-1])
			x1, y1 := vp.Project(m.canvas, trail[i])
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
		x, y := vp.Project(m.canvas, b.Position)
		m.canvas.DrawMarker(x, y)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Foreground(m.theme.Trail).Render(m.canvas.String())

	state := m.engine.State()
	elapsed, duration := m.engine.ElapsedTime(), m.engine.Duration()

	var s strings.Builder
	s.WriteString(HeaderStyle.Foreground(m.theme.Title).Render(strings.ToUpper(m.title)) + "\n\n")
	s.WriteString(StatusStyle(state).Render(strings.ToUpper(state.String())) + "\n\n")

	progress := 0.0
	if duration > 0 {
		progress = math.Min(elapsed/duration, 1)
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs / %.0fs", elapsed, duration)) + "\n")
	s.WriteString(labelStyle.Render("") + ProgressBar(progress, 24) + "\n\n")

	for _, b := range m.engine.Bodies() {
		line := fmt.Sprintf("%6.2f m/s  x=%7.1f z=%7.1f", b.Speed(), b.Position[0], b.Position[2])
		s.WriteString(labelStyle.Render(b.ID) + valueStyle.Render(line) + "\n")
	}

	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("mean speed (m/s)"))
		s.WriteString(graphStyle.Foreground(m.theme.Chart).Render(chart) + "\n")
	}

	if perf, ok := m.engine.Performance(); ok {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Result).Render("RESULTS") + "\n")
		s.WriteString(labelStyle.Render("distance") + MetricValue.Render(fmt.Sprintf("%.1f m", perf.TotalDistance)) + "\n")
		s.WriteString(labelStyle.Render("energy") + MetricValue.Render(fmt.Sprintf("%.1f", perf.TotalEnergyConsumption)) + "\n")
		s.WriteString(labelStyle.Render("efficiency") + MetricValue.Render(fmt.Sprintf("%.4f", perf.EnergyEfficiency)) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Error).Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Restart T:Theme ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return GlassPanel.Render(helpText) + "\n" + mainView
	}
	return mainView
}

const helpText = `Space  pause or resume
R      reset and run again
T      cycle color themes
?      toggle this help
Q      quit`

// Run opens the live view full screen and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
