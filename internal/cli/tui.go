package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/dbgasm/pkg/pipeline"
	"github.com/matzehuels/dbgasm/pkg/seq"
)

// =============================================================================
// Contig Browser Model
// =============================================================================

const (
	defaultBrowserHeight = 24
	defaultBrowserWidth  = 80
	// chrome is the number of lines used by the header, table borders and help.
	chrome = 7
)

var (
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
)

// browserKeys are the contig browser key bindings.
type browserKeys struct {
	Up, Down, PageUp, PageDown, Top, Bottom key.Binding
	Open, Back, Quit                        key.Binding
}

var keys = browserKeys{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Open:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "show sequence")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k browserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Top, k.Bottom, k.Open, k.Back, k.Quit},
	}
}

// browser is a bubbletea model that lists contigs and shows the selected
// contig's sequence.
type browser struct {
	title   string
	contigs []seq.Record
	stats   pipeline.Stats

	cursor int
	offset int
	detail bool
	width  int
	height int
	help   help.Model
}

func newBrowser(title string, contigs []seq.Record, stats pipeline.Stats) browser {
	return browser{
		title:   title,
		contigs: contigs,
		stats:   stats,
		width:   defaultBrowserWidth,
		height:  defaultBrowserHeight,
		help:    help.New(),
	}
}

// Init implements tea.Model.
func (b browser) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (b browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.help.Width = msg.Width
		b.clamp()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return b, tea.Quit
		case key.Matches(msg, keys.Back):
			if !b.detail {
				return b, tea.Quit
			}
			b.detail = false
		case key.Matches(msg, keys.Open):
			b.detail = !b.detail && len(b.contigs) > 0
		case key.Matches(msg, keys.Up):
			b.cursor--
		case key.Matches(msg, keys.Down):
			b.cursor++
		case key.Matches(msg, keys.PageUp):
			b.cursor -= b.pageSize()
		case key.Matches(msg, keys.PageDown):
			b.cursor += b.pageSize()
		case key.Matches(msg, keys.Top):
			b.cursor = 0
		case key.Matches(msg, keys.Bottom):
			b.cursor = len(b.contigs) - 1
		}
		b.clamp()
	}
	return b, nil
}

// pageSize is the number of table rows that fit on screen.
func (b browser) pageSize() int {
	return max(1, b.height-chrome)
}

// clamp keeps the cursor in range and scrolls it into view.
func (b *browser) clamp() {
	b.cursor = max(0, min(b.cursor, len(b.contigs)-1))
	page := b.pageSize()
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+page {
		b.offset = b.cursor - page + 1
	}
	b.offset = max(0, min(b.offset, len(b.contigs)-page))
}

// View implements tea.Model.
func (b browser) View() string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(b.title))
	sb.WriteString(StyleDim.Render(fmt.Sprintf("  %d contigs · N50 %s · total %s",
		len(b.contigs), formatBases(b.stats.N50), formatBases(b.stats.TotalLength))))
	sb.WriteString("\n\n")

	if len(b.contigs) == 0 {
		sb.WriteString(StyleWarning.Render("No contigs"))
		sb.WriteString("\n\n" + b.help.ShortHelpView([]key.Binding{keys.Quit}) + "\n")
		return sb.String()
	}

	if b.detail {
		sb.WriteString(b.detailView())
		sb.WriteString("\n" + b.help.ShortHelpView([]key.Binding{keys.Back, keys.Quit}) + "\n")
		return sb.String()
	}

	sb.WriteString(b.tableView().String())
	sb.WriteString("\n" + b.help.View(keys) + "\n")
	return sb.String()
}

// tableView renders the visible page of contigs.
func (b browser) tableView() *table.Table {
	end := min(len(b.contigs), b.offset+b.pageSize())
	previewWidth := max(10, b.width-40)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "LENGTH", "SEQUENCE").
		StyleFunc(func(row, col int) lipgloss.Style {
			base := StyleValue
			switch {
			case row == table.HeaderRow:
				base = StyleTitle
			case b.offset+row == b.cursor:
				base = styleSelected
			case col < 2:
				base = StyleNumber
			}
			if col < 2 && row != table.HeaderRow {
				base = base.Align(lipgloss.Right)
			}
			return base.Padding(0, 1)
		})
	for i := b.offset; i < end; i++ {
		c := b.contigs[i]
		t.Row(fmt.Sprint(i+1), fmt.Sprint(c.Len()), preview(c.Bases(), previewWidth))
	}
	return t
}

// detailView renders the full sequence of the selected contig, wrapped to
// the window width.
func (b browser) detailView() string {
	c := b.contigs[b.cursor]
	width := max(10, b.width-2)
	lines := wrap(c.Bases(), width)
	for i, l := range lines {
		lines[i] = colorizeBases(l)
	}
	if limit := b.height - chrome; limit > 0 && len(lines) > limit {
		more := len(lines) - limit + 1
		lines = append(lines[:limit-1], StyleDim.Render(fmt.Sprintf("… %d more lines", more)))
	}
	return styleSelected.Render(">"+c.Name) + "\n" + strings.Join(lines, "\n") + "\n"
}

// preview shortens s to width characters with a trailing ellipsis.
func preview(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}

// wrap splits s into lines of at most width characters.
func wrap(s string, width int) []string {
	var lines []string
	for len(s) > width {
		lines = append(lines, s[:width])
		s = s[width:]
	}
	return append(lines, s)
}
