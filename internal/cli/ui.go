package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dbgasm/pkg/pipeline"
)

// Palette shared by every command and the contig browser.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleLink   = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim    = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// baseStyles colors nucleotides the way genome browsers usually do.
var baseStyles = map[rune]lipgloss.Style{
	'A': lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
	'C': lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	'G': lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	'T': lipgloss.NewStyle().Foreground(lipgloss.Color("167")),
}

// colorizeBases renders each base of s in its own color. Runs of the same
// base share one escape sequence; other characters are dimmed.
func colorizeBases(s string) string {
	var sb strings.Builder
	for len(s) > 0 {
		r := rune(s[0])
		n := 1
		for n < len(s) && s[n] == s[0] {
			n++
		}
		style, ok := baseStyles[r]
		if !ok {
			style = StyleDim
		}
		sb.WriteString(style.Render(s[:n]))
		s = s[n:]
	}
	return sb.String()
}

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printStatus prints icon, styled with iconStyle, before the formatted message.
func printStatus(icon string, iconStyle, msgStyle lipgloss.Style, format string, args []any) {
	fmt.Println(iconStyle.Render(icon) + " " + msgStyle.Render(fmt.Sprintf(format, args...)))
}

var stylePlain = lipgloss.NewStyle()

func printSuccess(format string, args ...any) {
	printStatus(iconSuccess, styleIconSuccess, stylePlain, format, args)
}

func printError(format string, args ...any) {
	printStatus(iconError, styleIconError, stylePlain, format, args)
}

func printWarning(format string, args ...any) {
	printStatus(iconWarning, styleIconWarning, StyleWarning, format, args)
}

func printInfo(format string, args ...any) {
	printStatus(iconInfo, styleIconInfo, stylePlain, format, args)
}

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints value next to a fixed-width label.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints assembly statistics: graph size before and after
// simplification on one line, contig lengths on the next.
func printStats(st pipeline.Stats, cached bool) {
	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	printParts(
		fmt.Sprintf("%d reads", st.Reads),
		fmt.Sprintf("%d k-mers", st.Kmers),
		fmt.Sprintf("%d → %d nodes", st.NodesBefore, st.NodesAfter),
		fmt.Sprintf("%d → %d edges", st.EdgesBefore, st.EdgesAfter),
		statusStyle.Render(status),
	)
	if st.Contigs > 0 {
		printParts(
			fmt.Sprintf("longest %s", formatBases(st.Longest)),
			fmt.Sprintf("N50 %s", formatBases(st.N50)),
			fmt.Sprintf("total %s", formatBases(st.TotalLength)),
		)
	}
}

// printParts prints dim segments separated by middle dots.
func printParts(parts ...string) {
	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// formatBases renders a length with a bp/kbp/Mbp unit.
func formatBases(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1f Mbp", float64(n)/1e6)
	case n >= 10_000:
		return fmt.Sprintf("%.1f kbp", float64(n)/1e3)
	default:
		return fmt.Sprintf("%d bp", n)
	}
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }
