package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphstream/pkg/graph"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, additions
	colorYellow = lipgloss.Color("220") // Amber - warnings, steps
	colorRed    = lipgloss.Color("167") // Soft red - errors, removals
	colorBlue   = lipgloss.Color("75")  // Light blue - commands, attributes
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleEventAdded   = lipgloss.NewStyle().Foreground(colorGreen)
	styleEventRemoved = lipgloss.NewStyle().Foreground(colorRed)
	styleEventAttr    = lipgloss.NewStyle().Foreground(colorBlue)
	styleEventStep    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value in a fixed-width key column.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Graph Output
// =============================================================================

// printStats prints graph size and the last step on one line:
//
//	3 nodes · 3 edges · step 2
func printStats(nodes, edges int, step float64) {
	fmt.Println("  " + statsLine(nodes, edges, step))
}

func statsLine(nodes, edges int, step float64) string {
	parts := []string{
		fmt.Sprintf("%d nodes", nodes),
		fmt.Sprintf("%d edges", edges),
		fmt.Sprintf("step %g", step),
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// eventStyle colors an event line by what it does to the graph.
func eventStyle(e graph.Event) lipgloss.Style {
	switch e.Kind {
	case graph.NodeAdded, graph.EdgeAdded:
		return styleEventAdded
	case graph.NodeRemoved, graph.EdgeRemoved, graph.GraphCleared:
		return styleEventRemoved
	case graph.StepBegun:
		return styleEventStep
	case graph.AttributeChangedEvent:
		if e.Change == graph.AttributeRemoved {
			return styleEventRemoved
		}
		return styleEventAttr
	}
	return StyleValue
}
