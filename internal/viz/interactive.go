package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/vehiclelab/internal/experiment"
	"github.com/san-kum/vehiclelab/internal/scenario"
	"github.com/san-kum/vehiclelab/internal/sim"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

const (
	paramCruise   = "cruise_speed"
	paramDuration = "duration"
	paramTimeStep = "time_step"
)

// App lets the user pick a scenario preset and a vehicle, tune a few run
// parameters and then watch the run live.
type App struct {
	state       int
	cursor      int
	presets     []string
	selected    string
	vehicles    *experiment.Registry
	vehicleIDs  []string
	vehicle     int
	params      map[string]float64
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string
	engine      sim.Config
	err         error
	live        Model
}

func NewApp(engine sim.Config) App {
	reg := experiment.NewRegistry()
	return App{
		state:      stateMenu,
		presets:    scenario.PresetNames(),
		vehicles:   reg,
		vehicleIDs: reg.ListVehicles(),
		params: map[string]float64{
			paramCruise:   20,
			paramDuration: 30,
			paramTimeStep: scenario.DefaultTimeStep,
		},
		paramNames: []string{paramCruise, paramDuration, paramTimeStep},
		engine:     engine,
	}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(key)
		case stateConfig:
			return m.configKey(key)
		}
	}
	return m, nil
}

func (m App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.presets) == 0 {
			return m, nil
		}
		m.selected = m.presets[m.cursor]
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.params[m.paramNames[m.paramCursor]] = v
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "tab", "v":
		if len(m.vehicleIDs) > 0 {
			m.vehicle = (m.vehicle + 1) % len(m.vehicleIDs)
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(m.params[m.paramNames[m.paramCursor]], 'g', -1, 64)
	case "left", "h":
		m.params[m.paramNames[m.paramCursor]] *= 0.9
	case "right", "l":
		m.params[m.paramNames[m.paramCursor]] *= 1.1
	case "s":
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

// start builds an engine for the chosen preset and vehicle and hands
// control to the live view.
func (m *App) start() tea.Cmd {
	sc := scenario.Preset(m.selected)
	if sc == nil {
		m.err = fmt.Errorf("unknown preset %q", m.selected)
		return nil
	}
	v, err := m.vehicles.GetVehicle(m.vehicleIDs[m.vehicle])
	if err != nil {
		m.err = err
		return nil
	}
	v.CruiseSpeed = m.params[paramCruise]

	exp := experiment.New(sc, experiment.Config{
		Vehicles: []experiment.Vehicle{v},
		Engine:   m.engine,
	})
	if err := exp.Setup(); err != nil {
		m.err = err
		return nil
	}
	live, err := NewModel(exp.Engine(), sim.RunParams{
		Duration: m.params[paramDuration],
		TimeStep: m.params[paramTimeStep],
	})
	if err != nil {
		m.err = err
		return nil
	}
	m.live, m.state, m.err = live, stateSim, nil
	return m.live.Init()
}

func (m App) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m App) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("VEHICLELAB") + "\n    " + subStyle.Render("vehicle scenario simulator") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := ""
		if sc := scenario.Preset(name); sc != nil {
			desc = fmt.Sprintf("%s, %s", sc.Environment.Terrain, sc.Environment.Weather)
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectStyle.Render(fmt.Sprintf("%-16s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-16s", name)), idleDesc.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m App) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.selected)) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")

	vehicle := ""
	if len(m.vehicleIDs) > 0 {
		vehicle = m.vehicleIDs[m.vehicle]
	}
	b.WriteString(fmt.Sprintf("    %s %s\n\n", idleStyle.Render(fmt.Sprintf("  %-14s", "vehicle")), descStyle.Render(vehicle)))

	for i, name := range m.paramNames {
		valStr := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectStyle.Render(fmt.Sprintf("%-14s", name)), descStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-14s", name)), idleDesc.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errTextStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "tab", "vehicle", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the picker full screen.
func RunInteractive(engine sim.Config) error {
	_, err := tea.NewProgram(NewApp(engine), tea.WithAltScreen()).Run()
	return err
}
