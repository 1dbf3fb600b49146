package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/filterwell/pp96/pkg/press"
)

type ReplCommand struct{}

const (
	headerHeight = 2 // title + blank line
	inputHeight  = 2 // prompt + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// One chart series per PWM channel.
var seriesColors = map[string]string{
	"servo-1":  "196", // red
	"servo-2":  "51",  // cyan
	"actuator": "226", // yellow
}

var chartSeries = []string{"servo-1", "servo-2", "actuator"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type replModel struct {
	ctrl     *press.Controller
	sess     *session
	input    textinput.Model
	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	quitting bool
}

// Messages from the controller and the command worker.
type stateMsg press.State
type logMsg string

func waitForState(ctrl *press.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(sess *session) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-sess.logs)
	}
}

func initialReplModel(ctrl *press.Controller, sess *session) replModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(0, 180),
	)
	for _, name := range chartSeries {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(seriesColors[name]))
		chart.SetDataSetStyles(name, runes.ThinLineStyle, style)
	}

	input := textinput.New()
	input.Placeholder = "command (help for the list)"
	input.Prompt = "> "
	input.Focus()

	return replModel{
		ctrl:  ctrl,
		sess:  sess,
		input: input,
		chart: &chart,
	}
}

func (m *replModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *replModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - inputHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.sess),
		textinput.Blink,
	)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.chartSize()
		m.chart.Resize(w, h)
		m.input.Width = m.width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			switch strings.ToLower(line) {
			case "":
				return m, nil
			case "quit", "exit":
				m.quitting = true
				return m, tea.Quit
			}
			if !m.sess.submit(line) {
				m.addLog("busy: a sweep is still running")
			}
			return m, nil
		}

	case stateMsg:
		m.chart.PushDataSet("servo-1", float64(msg.Primary))
		m.chart.PushDataSet("servo-2", float64(msg.Secondary))
		m.chart.PushDataSet("actuator", float64(msg.Actuator))
		m.chart.DrawAll()
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.sess)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m replModel) View() string {
	if m.quitting {
		return "Parking servos and releasing pulses...\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("PP96 Control"))
	sb.WriteString(fmt.Sprintf(" - speed %d%%", m.ctrl.Speed()))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	sb.WriteString(m.input.View())
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4)

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render(helpText)
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, name := range chartSeries {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(seriesColors[name])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+name)
	}
	return strings.Join(items, "  ")
}

func (c *ReplCommand) Execute(args []string) error {
	return withController(func(ctrl *press.Controller) error {
		sess := newSession(ctrl)
		go sess.run()
		defer sess.close()

		p := tea.NewProgram(initialReplModel(ctrl, sess), tea.WithAltScreen())
		_, err := p.Run()
		return err
	})
}
