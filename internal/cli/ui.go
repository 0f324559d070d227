package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
)

// =============================================================================
// Color Palette
// =============================================================================

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

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// typeStyle colors text with the fill of a node type.
func typeStyle(t graph.NodeType) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(styles.NodeColor(t)))
}

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
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Graph Output
// =============================================================================

// printLoadStatus reports demo fallback, stale snapshots and records
// dropped during validation.
func printLoadStatus(res adapter.Result) {
	switch {
	case res.Demo && res.Err != nil:
		printWarning("Showing sample data: %s", kberrors.UserMessage(res.Err))
	case res.Demo:
		printWarning("Showing sample data")
	case res.Stale:
		printWarning("Source unavailable, using cached snapshot of %s", res.Source)
	}
	r := res.Report
	if n := r.InvalidNodes + r.DuplicateNodes; n > 0 {
		printDetail("%d invalid or duplicate nodes skipped", n)
	}
	if n := r.InvalidEdges + r.DuplicateEdges; n > 0 {
		printDetail("%d invalid or duplicate edges skipped", n)
	}
	if r.FilteredNodes > 0 {
		printDetail("%d nodes hidden by the type filter", r.FilteredNodes)
	}
}

// printStats prints graph statistics on a single line.
func printStats(s graph.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", s.NodeCount),
		fmt.Sprintf("%d edges", s.EdgeCount),
	}
	if s.DroppedEdges > 0 {
		parts = append(parts, fmt.Sprintf("%d dangling", s.DroppedEdges))
	}
	parts = append(parts, fmt.Sprintf("avg degree %.2f", s.AvgDegree))

	status := styleComputed.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}

	var line strings.Builder
	line.WriteString("  ")
	for _, p := range parts {
		line.WriteString(StyleDim.Render(p))
		line.WriteString(StyleDim.Render(" · "))
	}
	line.WriteString(status)
	fmt.Println(line.String())
}

// positionsTable renders the positioned nodes of l as a table, highest
// degree first. limit <= 0 shows every node.
func positionsTable(l graph.Layout, limit int) string {
	idx := graph.NewIndex(l.Nodes, l.Edges)
	nodes := idx.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		di, dj := idx.Degree(nodes[i].ID), idx.Degree(nodes[j].ID)
		if di != dj {
			return di > dj
		}
		return nodes[i].ID < nodes[j].ID
	})
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		x, y := "—", "—"
		if n.Position != nil {
			x, y = fmt.Sprintf("%.1f", n.Position.X), fmt.Sprintf("%.1f", n.Position.Y)
		}
		rows = append(rows, []string{
			n.ID,
			styles.TruncateLabel(n.DisplayLabel(), 32),
			string(n.Type),
			fmt.Sprint(idx.Degree(n.ID)),
			x, y,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Label", "Type", "Degree", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 2 && row < len(nodes) {
				return typeStyle(nodes[row].Type)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorGray).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
