package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/engine"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/events"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/gfx"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/quality"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/scene"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const (
	canvasWidth  = 61
	canvasHeight = 21

	// markerSeparationDeg is the minimum angular gap between body markers
	// on the canvas.
	markerSeparationDeg = 6.0
)

// Monitor drives the engine from a terminal frame loop and shows its
// adaptive behavior live: FPS history, quality level, cache pressure, and
// context state. Keys inject the failure scenarios.
type Monitor struct {
	eng   *engine.Engine
	dev   *gfx.SoftwareDevice
	start time.Time

	stress     bool
	persistent bool
	log        []string

	qualSub *events.Subscription
	ctxSub  *events.Subscription

	width  int
	height int
}

func NewMonitor(eng *engine.Engine, dev *gfx.SoftwareDevice) *Monitor {
	m := &Monitor{
		eng:    eng,
		dev:    dev,
		start:  time.Now(),
		width:  100,
		height: 40,
	}
	m.qualSub = eng.OnQualitySuggestion(func(s quality.Suggestion) {
		kind := "auto"
		if s.Manual {
			kind = "manual"
		}
		m.push(fmt.Sprintf("quality %s -> %s (%s, %.1f fps)", s.From, s.To, kind, s.MeanFPS))
	})
	m.ctxSub = eng.OnContextEvent(func(ev gfx.ContextEvent) {
		m.persistent = ev.Persistent
		m.push(fmt.Sprintf("context %s", ev.State))
	})
	return m
}

func (m *Monitor) push(line string) {
	m.log = append(m.log, line)
	if len(m.log) > 5 {
		m.log = m.log[1:]
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Monitor) Init() tea.Cmd { return tick() }

func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.qualSub.Unsubscribe()
			m.ctxSub.Unsubscribe()
			return m, tea.Quit
		case "l":
			m.eng.NotifyContextLost()
		case "r":
			m.eng.NotifyContextRestored()
		case "s":
			m.stress = !m.stress
		case "a":
			cur := m.eng.Quality().Current()
			m.eng.Quality().SetAutoAdjust(!cur.AutoAdjust)
		case "1", "2", "3", "4":
			m.eng.SetQualityLevel(quality.Level(int(msg.String()[0] - '1')))
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.stress {
			// Artificial draw cost so the controller has something to react to.
			time.Sleep(60 * time.Millisecond)
		}
		nowMs := float64(time.Since(m.start).Microseconds()) / 1000.0
		m.eng.Tick(nowMs)
		return m, tick()
	}
	return m, nil
}

func (m *Monitor) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render("celestial engine monitor"))
	b.WriteString(dim.Render("   q quit · l lose ctx · r restore · s stress · a auto · 1-4 level"))
	b.WriteString("\n\n")

	b.WriteString(m.renderOrbits())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFPS())
	b.WriteString("\n")

	for _, line := range m.log {
		b.WriteString(dim.Render("  " + line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Monitor) renderOrbits() string {
	frame := m.dev.LastFrame()
	grid := make([][]rune, canvasHeight)
	for i := range grid {
		grid[i] = make([]rune, canvasWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}
	grid[canvasHeight/2][canvasWidth/2] = '*'

	if frame != nil {
		maxR := 1.0
		angles := make([]float64, len(frame.Bodies))
		for i, bd := range frame.Bodies {
			r := math.Hypot(bd.Position[0], bd.Position[1])
			if r > maxR {
				maxR = r
			}
			angles[i] = math.Atan2(bd.Position[1], bd.Position[0]) * 180 / math.Pi
		}
		// Markers of bodies in conjunction would land on the same cell;
		// relax their angles apart so every body stays readable.
		angles = scene.RelaxAngles(angles, markerSeparationDeg)
		for i, bd := range frame.Bodies {
			// Square-root scaling keeps the inner planets distinguishable.
			r := math.Hypot(bd.Position[0], bd.Position[1])
			theta := angles[i] * math.Pi / 180
			s := math.Sqrt(r/maxR) * float64(canvasHeight/2-1)
			x := canvasWidth/2 + int(s*math.Cos(theta)*2.4)
			y := canvasHeight/2 - int(s*math.Sin(theta))
			if x >= 0 && x < canvasWidth && y >= 0 && y < canvasHeight {
				marker := 'o'
				if bd.Name != "" {
					marker = rune(bd.Name[0])
				}
				grid[y][x] = marker
			}
		}
	}

	var b strings.Builder
	border := "  +" + strings.Repeat("-", canvasWidth) + "+\n"
	b.WriteString(border)
	for _, row := range grid {
		b.WriteString("  |")
		b.WriteString(string(row))
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String()
}

func (m *Monitor) renderStatus() string {
	s := m.eng.Quality().Current()
	stats := m.eng.Cache().Stats()

	level := green.Render(s.Level.String())
	if s.Level == quality.Low {
		level = yellow.Render(s.Level.String())
	}

	ctx := green.Render("valid")
	switch m.eng.ContextState() {
	case gfx.ContextLost:
		if m.persistent {
			ctx = red.Render("lost - rendering unavailable")
		} else {
			ctx = yellow.Render("lost - recovering")
		}
	case gfx.ContextRecovering:
		ctx = yellow.Render("recovering")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %.1f   %s %v\n",
		dim.Render("level"), level,
		dim.Render("context"), ctx,
		dim.Render("pixel ratio"), s.PixelRatio,
		dim.Render("auto"), s.AutoAdjust))
	b.WriteString(fmt.Sprintf("  %s %d/%d MB   %s %d   %s %d   %s %d   %s %d\n",
		dim.Render("vram"), stats.UsageBytes>>20, stats.BudgetBytes>>20,
		dim.Render("textures"), stats.Entries,
		dim.Render("fetches"), stats.Fetches,
		dim.Render("fallbacks"), stats.Fallbacks,
		dim.Render("evicted"), stats.Evictions))
	if m.stress {
		b.WriteString(magenta.Render("  stress mode: +60ms per frame\n"))
	}
	return b.String()
}

func (m *Monitor) renderFPS() string {
	hist := m.eng.Sampler().History()
	if len(hist) < 2 {
		return dim.Render("  collecting samples...")
	}
	chart := asciigraph.Plot(hist,
		asciigraph.Height(6),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("fps (mean %.1f)", m.eng.Sampler().CurrentFPS())))
	return white.Render(chart)
}

// Run starts the monitor loop and blocks until quit.
func Run(eng *engine.Engine, dev *gfx.SoftwareDevice) error {
	p := tea.NewProgram(NewMonitor(eng, dev), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
