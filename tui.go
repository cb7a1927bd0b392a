package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keycombo/config"
)

// TUI message types
type HeldMsg struct{ Keys string }
type FiredMsg struct {
	Binding string
	Keys    string
	Action  string
	At      time.Time
}
type ActionFailedMsg struct {
	Binding string
	Err     error
}
type PausedMsg struct{ Paused bool }

const maxRecent = 8

type firedEntry struct {
	at      time.Time
	binding string
	keys    string
	action  string
}

type tuiModel struct {
	bindings      [][3]string // name, keys, action
	held          string
	paused        bool
	recent        []firedEntry
	firedCount    int
	lastErr       string
	width, height int
	togglePause   func() bool
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	liveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	keyCapStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("238")).Padding(0, 1)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
)

func newTUIModel(cfg *config.Config) tuiModel {
	m := tuiModel{}
	for _, b := range cfg.Bindings {
		m.bindings = append(m.bindings, [3]string{b.Name, strings.Join(b.Keys, " | "), b.Action})
	}
	return m
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "p":
			if m.togglePause != nil {
				// PauseChanged sends back into the program, so this must not run on the update loop.
				toggle := m.togglePause
				return m, func() tea.Msg {
					toggle()
					return nil
				}
			}
		}

	case HeldMsg:
		m.held = msg.Keys

	case FiredMsg:
		m.firedCount++
		m.recent = append([]firedEntry{{msg.At, msg.Binding, msg.Keys, msg.Action}}, m.recent...)
		if len(m.recent) > maxRecent {
			m.recent = m.recent[:maxRecent]
		}

	case ActionFailedMsg:
		m.lastErr = fmt.Sprintf("%s: %v", msg.Binding, msg.Err)

	case PausedMsg:
		m.paused = msg.Paused
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var lines []string

	status := liveStyle.Render("● LISTENING")
	if m.paused {
		status = pausedStyle.Render("‖ PAUSED")
	}
	lines = append(lines, titleStyle.Render("keycombo")+"  "+status)
	lines = append(lines, "")

	held := dimStyle.Render("(none)")
	if m.held != "" {
		caps := strings.Split(m.held, "+")
		for i, c := range caps {
			caps[i] = keyCapStyle.Render(c)
		}
		held = strings.Join(caps, " ")
	}
	lines = append(lines, "Held  "+held)
	lines = append(lines, "")

	lines = append(lines, titleStyle.Render(fmt.Sprintf("Bindings (%d)", len(m.bindings))))
	nameWidth := 4
	for _, b := range m.bindings {
		nameWidth = max(nameWidth, len(b[0]))
	}
	for _, b := range m.bindings {
		name := nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, b[0]))
		lines = append(lines, fmt.Sprintf("  %s  %-7s %s", name, b[2], dimStyle.Render(b[1])))
	}
	lines = append(lines, "")

	lines = append(lines, titleStyle.Render(fmt.Sprintf("Fired (%d)", m.firedCount)))
	if len(m.recent) == 0 {
		lines = append(lines, dimStyle.Render("  No combos fired yet"))
	}
	for _, f := range m.recent {
		lines = append(lines, fmt.Sprintf("  %s  %s  %s",
			dimStyle.Render(f.at.Format("15:04:05")),
			nameStyle.Render(f.binding),
			dimStyle.Render(f.keys+" → "+f.action)))
	}

	if m.lastErr != "" {
		lines = append(lines, "")
		for _, l := range wrapText(m.lastErr, max(m.width-2, 10)) {
			lines = append(lines, errStyle.Render(l))
		}
	}

	lines = append(lines, "")
	lines = append(lines, helpKeyStyle.Render("p")+helpStyle.Render(" pause/resume  ")+
		helpKeyStyle.Render("q")+helpStyle.Render(" quit  ")+
		helpStyle.Render("keycombo "+version))

	return lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(m.height).
		Render(strings.Join(lines, "\n"))
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		// Find last space within width
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}

// tuiSink forwards daemon events into the Bubble Tea program. Events that
// arrive before the program starts are dropped.
type tuiSink struct {
	mu      sync.Mutex
	model   tuiModel
	program *tea.Program
	quit    bool
}

func newTUISink(cfg *config.Config) *tuiSink {
	return &tuiSink{model: newTUIModel(cfg)}
}

// Run blocks until the user quits or Quit is called.
func (s *tuiSink) Run(togglePause func() bool) (tea.Model, error) {
	s.mu.Lock()
	if s.quit {
		s.mu.Unlock()
		return s.model, nil
	}
	m := s.model
	m.togglePause = togglePause
	s.program = tea.NewProgram(m, tea.WithAltScreen())
	p := s.program
	s.mu.Unlock()

	return p.Run()
}

func (s *tuiSink) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quit = true
	if s.program != nil {
		s.program.Quit()
	}
}

func (s *tuiSink) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}

func (s *tuiSink) HeldKeys(keys string) { s.send(HeldMsg{Keys: keys}) }

func (s *tuiSink) ComboFired(binding, keys, action string) {
	s.send(FiredMsg{Binding: binding, Keys: keys, Action: action, At: time.Now()})
}

func (s *tuiSink) ActionFailed(binding string, err error) {
	s.send(ActionFailedMsg{Binding: binding, Err: err})
}

func (s *tuiSink) PauseChanged(paused bool) { s.send(PausedMsg{Paused: paused}) }
