package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/graphstream/pkg/graph"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// FramesModel - Interactive step-by-step playback
// =============================================================================

// tickMsg advances autoplay.
type tickMsg struct{}

// FramesModel is the bubbletea model stepping a graph through the STEP frames
// of an event log.
type FramesModel struct {
	Player   *stream.Player
	Frame    stream.Frame
	Err      error
	Playing  bool
	Interval time.Duration
	Height   int // event lines shown per frame
	TopNodes int // rows of the degree table
}

// NewFramesModel creates a frames model over player.
func NewFramesModel(player *stream.Player, interval time.Duration) FramesModel {
	return FramesModel{
		Player:   player,
		Interval: interval,
		Height:   10,
		TopNodes: 5,
	}
}

func (m FramesModel) Init() tea.Cmd {
	return nil
}

func (m FramesModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(time.Time) tea.Msg { return tickMsg{} })
}

// advance plays the next frame. It reports false when there is none.
func (m *FramesModel) advance() bool {
	f, ok, err := m.Player.Step()
	if !ok {
		return false
	}
	m.Frame, m.Err = f, err
	return true
}

func (m FramesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n", "enter":
			m.Playing = false
			m.advance()
		case "end", "G":
			m.Playing = false
			for m.advance() {
			}
		case " ", "p":
			m.Playing = !m.Playing && !m.Player.Done()
			if m.Playing {
				return m, m.tick()
			}
		}
	case tickMsg:
		if !m.Playing {
			return m, nil
		}
		if !m.advance() || m.Player.Done() {
			m.Playing = false
			return m, nil
		}
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-18, 3)
	}
	return m, nil
}

func (m FramesModel) View() string {
	var b strings.Builder
	g := m.Player.Graph()

	b.WriteString(StyleTitle.Render("Frames of " + g.ID()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("→ next  space play/pause  G end  q quit"))
	b.WriteString("\n\n")

	step := "start"
	if m.Frame.HasStep {
		step = "step " + strconv.FormatFloat(m.Frame.Step, 'g', -1, 64)
	}
	if m.Player.Position() == 0 {
		step = "not started"
	}
	fmt.Fprintf(&b, "  %s  %s  %s\n",
		StyleNumber.Render(fmt.Sprintf("[%d/%d]", m.Player.Position(), m.Player.Len())),
		StyleValue.Render(step),
		StyleDim.Render(fmt.Sprintf("%d nodes · %d edges · event #%d", g.NodeCount(), g.EdgeCount(), g.LastEventID())))
	if m.Playing {
		b.WriteString("  " + StyleSuccess.Render("playing") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.eventsView())
	b.WriteString("\n")
	b.WriteString(degreeTable(g, m.TopNodes))
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(listErrorStyle.Render("  " + m.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// eventsView lists the events of the current frame.
func (m FramesModel) eventsView() string {
	var b strings.Builder
	events := m.Frame.Events
	shown := min(len(events), m.Height)
	for _, e := range events[:shown] {
		b.WriteString("  " + eventStyle(e).Render(e.String()) + "\n")
	}
	if len(events) > shown {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d more", len(events)-shown)) + "\n")
	}
	return b.String()
}

// degreeTable renders the n highest-degree nodes.
func degreeTable(g *graph.Graph, n int) string {
	nodes := g.Nodes()
	type row struct {
		id     string
		degree int
	}
	rows := make([]row, 0, len(nodes))
	for _, nd := range nodes {
		rows = append(rows, row{nd.ID(), nd.Degree()})
	}
	// Nodes come in id order; ties keep it.
	slices.SortStableFunc(rows, func(a, b row) int { return b.degree - a.degree })
	rows = rows[:min(n, len(rows))]
	if len(rows) == 0 {
		return listDimStyle.Render("  (empty graph)")
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		label := r.id
		if nd := g.Node(r.id); nd != nil {
			label = nd.Label()
		}
		cells[i] = []string{label, strconv.Itoa(r.degree)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Degree").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}
