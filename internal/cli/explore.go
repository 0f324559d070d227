package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kbgraph/pkg/adapter"
	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/interaction"
	"github.com/matzehuels/kbgraph/pkg/layout"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
	"github.com/matzehuels/kbgraph/pkg/render/scene"
	"github.com/matzehuels/kbgraph/pkg/render/styles"
	"github.com/matzehuels/kbgraph/pkg/viewport"
)

// One terminal cell stands for cellW × cellH canvas units, so the layout
// runs at a resolution comparable to a browser surface.
const (
	cellW = 8.0
	cellH = 16.0

	headerRows = 1
	footerRows = 5
)

func (c *CLI) exploreCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore a knowledge graph in the terminal",
		Long: `Explore a knowledge graph in the terminal.

The graph is laid out to fit the terminal and relaid out when the window is
resized. Hovering a node highlights it and its neighbors; clicking selects it
and opens the detail panel.

  mouse drag        pan             wheel         zoom
  + / - / 0         zoom in/out/reset
  arrows, h j k l   pan
  tab / shift+tab   hover next/previous node
  enter             select hovered node
  [ / ]  n          pick a neighbor in the panel, go to it
  esc               close the panel
  r                 reload from the source
  q                 quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg)
			if err != nil {
				return err
			}
			return c.runExplore(cmd.Context(), flags, opts)
		},
	}

	flags.registerLayout(cmd)
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, flags optionFlags, opts pipeline.Options) error {
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	src, closeSrc, err := c.newSource(ctx, flags.source)
	if err != nil {
		return err
	}
	defer closeSrc()

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	// The terminal belongs to the UI from here on.
	runner.Logger = log.New(io.Discard)
	reload := func() adapter.Result { return runner.Load(ctx, src, opts) }

	m := newExplorer(reload(), opts, reload, c.cfg.ViewportOptions()...)
	defer m.stop()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// Messages
// =============================================================================

type layoutMsg []graph.Node

type reloadMsg adapter.Result

// waitForLayout delivers the next completed layout pass. It returns no
// message once done is closed.
func waitForLayout(ch <-chan []graph.Node, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case nodes := <-ch:
			return layoutMsg(nodes)
		case <-done:
			return nil
		}
	}
}

// =============================================================================
// Detail Panel
// =============================================================================

// detailPanel shows the selected node and lets the user walk to one of its
// neighbors.
type detailPanel struct {
	open       bool
	node       graph.Node
	neighbors  []graph.Node
	cursor     int
	onClose    func()
	onNavigate func(graph.Node)
}

func (p *detailPanel) Open(node graph.Node, related []graph.Edge, all []graph.Node, onClose func(), onNavigate func(graph.Node)) {
	byID := make(map[string]graph.Node, len(all))
	for _, n := range all {
		byID[n.ID] = n
	}
	seen := map[string]bool{}
	p.neighbors = p.neighbors[:0]
	for _, e := range related {
		id := e.Other(node.ID)
		if n, ok := byID[id]; ok && !seen[id] {
			seen[id] = true
			p.neighbors = append(p.neighbors, n)
		}
	}
	sort.Slice(p.neighbors, func(i, j int) bool { return p.neighbors[i].DisplayLabel() < p.neighbors[j].DisplayLabel() })

	p.open, p.node, p.cursor = true, node, 0
	p.onClose, p.onNavigate = onClose, onNavigate
}

func (p *detailPanel) Close() { p.open = false }

func (p *detailPanel) move(delta int) {
	if n := len(p.neighbors); n > 0 {
		p.cursor = (p.cursor + delta + n) % n
	}
}

func (p *detailPanel) navigate() {
	if p.open && p.cursor < len(p.neighbors) && p.onNavigate != nil {
		p.onNavigate(p.neighbors[p.cursor])
	}
}

func (p *detailPanel) dismiss() {
	if p.open && p.onClose != nil {
		p.onClose()
	}
	p.Close()
}

func (p *detailPanel) view(width int) string {
	var b strings.Builder
	b.WriteString(typeStyle(p.node.Type).Bold(true).Render(p.node.DisplayLabel()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %s", styles.NodeTypeLabel(p.node.Type), p.node.ID)))
	if p.node.DocumentCount > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf(" · %d documents", p.node.DocumentCount)))
	}
	b.WriteString("\n")

	if p.node.Summary != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).MaxHeight(2).Render(p.node.Summary))
		b.WriteString("\n")
	}

	parts := make([]string, 0, len(p.neighbors))
	for i, n := range p.neighbors {
		label := styles.TruncateLabel(n.DisplayLabel(), 24)
		if i == p.cursor {
			label = StyleHighlight.Bold(true).Render("▸ " + label)
		} else {
			label = StyleValue.Render(label)
		}
		parts = append(parts, label)
	}
	if len(parts) == 0 {
		b.WriteString(StyleDim.Render("no connections"))
	} else {
		b.WriteString(lipgloss.NewStyle().Width(width).MaxHeight(2).Render(strings.Join(parts, StyleDim.Render(" · "))))
	}
	return b.String()
}

// =============================================================================
// Explorer Model
// =============================================================================

// explorer is the bubbletea model of the terminal graph view. Layout passes
// run on the viewport manager's timer and arrive as layoutMsg.
type explorer struct {
	ctrl    *interaction.Controller
	vp      *viewport.Manager
	layouts chan []graph.Node
	done    chan struct{}
	stopped sync.Once
	panel   *detailPanel
	reload  func() adapter.Result
	opts    pipeline.Options

	loaded   adapter.Result
	cols     int
	rows     int
	hoverIdx int
	status   string
	pressed  string // node under the last mouse press
	dragged  bool
}

func newExplorer(loaded adapter.Result, opts pipeline.Options, reload func() adapter.Result, vpOpts ...viewport.Option) *explorer {
	m := &explorer{
		ctrl:     interaction.NewController(),
		layouts:  make(chan []graph.Node, 1),
		done:     make(chan struct{}),
		panel:    &detailPanel{},
		reload:   reload,
		opts:     opts,
		hoverIdx: -1,
	}
	m.ctrl.Panel = m.panel
	m.ctrl.OnNodeClick = func(n graph.Node) { m.status = "selected " + n.DisplayLabel() }

	vpOpts = append(vpOpts, viewport.WithOnLayout(m.deliver))
	m.vp = viewport.New(viewport.ForceLayout(layout.WithOptions(opts.Tuning)), vpOpts...)
	m.setLoaded(loaded)
	return m
}

// deliver hands a finished pass to the UI, replacing one not yet consumed.
func (m *explorer) deliver(nodes []graph.Node) {
	for {
		select {
		case m.layouts <- nodes:
			return
		default:
			select {
			case <-m.layouts:
			default:
			}
		}
	}
}

// stop releases a pending waitForLayout and cancels the relayout timer.
func (m *explorer) stop() {
	m.stopped.Do(func() {
		close(m.done)
		m.vp.Close()
	})
}

func (m *explorer) setLoaded(res adapter.Result) {
	m.loaded = res
	m.vp.SetGraph(res.Graph.Nodes, res.Graph.Edges)

	// New metadata shows on the current positions until the next pass.
	nodes := graph.CloneNodes(res.Graph.Nodes)
	pos := graph.Positions(m.vp.Positions())
	for i, n := range nodes {
		if p, ok := pos[n.ID]; ok {
			nodes[i] = n.WithPosition(p)
		}
	}
	m.ctrl.SetGraph(nodes, res.Graph.Edges)
}

func (m *explorer) Init() tea.Cmd {
	return waitForLayout(m.layouts, m.done)
}

func (m *explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case layoutMsg:
		_, edges := m.vp.Graph()
		m.ctrl.SetGraph([]graph.Node(msg), edges)
		return m, waitForLayout(m.layouts, m.done)

	case reloadMsg:
		m.setLoaded(adapter.Result(msg))
		m.status = "reloaded " + msg.Source

	case tea.MouseMsg:
		m.mouse(msg)

	case tea.KeyMsg:
		return m, m.key(msg.String())
	}
	return m, nil
}

func (m *explorer) resize(cols, rows int) {
	m.cols, m.rows = cols, rows
	canvasRows := max(rows-headerRows-footerRows, 1)
	// The manager clamps the height to its minimum; the view crops.
	m.vp.Observe(float64(cols)*cellW, float64(canvasRows)*cellH)
}

func (m *explorer) key(k string) tea.Cmd {
	switch k {
	case "q", "ctrl+c":
		return tea.Quit
	case "tab":
		m.cycleHover(1)
	case "shift+tab":
		m.cycleHover(-1)
	case "enter":
		if h := m.ctrl.State().Hovered; h != "" {
			m.ctrl.Click(h)
		}
	case "esc":
		m.panel.dismiss()
		m.ctrl.Unhover()
	case "[":
		m.panel.move(-1)
	case "]":
		m.panel.move(1)
	case "n":
		m.panel.navigate()
	case "r":
		m.status = "reloading..."
		reload := m.reload
		return func() tea.Msg { return reloadMsg(reload()) }
	default:
		m.ctrl.Key(k)
	}
	return nil
}

// cycleHover moves the hover through nodes in descending degree order.
func (m *explorer) cycleHover(step int) {
	nodes := m.byDegree()
	if len(nodes) == 0 {
		return
	}
	m.hoverIdx = (m.hoverIdx + step + len(nodes)) % len(nodes)
	m.ctrl.Hover(nodes[m.hoverIdx].ID)
}

func (m *explorer) byDegree() []graph.Node {
	idx := m.ctrl.Index()
	nodes := idx.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		di, dj := idx.Degree(nodes[i].ID), idx.Degree(nodes[j].ID)
		if di != dj {
			return di > dj
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// surfacePoint maps a terminal cell to the center of its canvas area.
func surfacePoint(col, row int) interaction.Point {
	return interaction.Point{X: (float64(col) + 0.5) * cellW, Y: (float64(row-headerRows) + 0.5) * cellH}
}

func (m *explorer) mouse(msg tea.MouseMsg) {
	p := surfacePoint(msg.X, msg.Y)
	sc := m.scene()

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ctrl.Wheel(1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.ctrl.Wheel(-1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pressed = m.nodeAt(sc, p)
		m.dragged = false
		m.ctrl.PointerDown(p, m.pressed)
	case msg.Action == tea.MouseActionMotion:
		if m.ctrl.State().Dragging {
			m.dragged = true
			m.ctrl.PointerMove(p)
			return
		}
		if id := m.nodeAt(sc, p); id != "" {
			m.ctrl.Hover(id)
		} else {
			m.ctrl.Unhover()
		}
	case msg.Action == tea.MouseActionRelease:
		m.ctrl.PointerUp()
		if !m.dragged && m.pressed != "" && m.pressed == m.nodeAt(sc, p) {
			m.ctrl.Click(m.pressed)
		}
		m.pressed = ""
	}
}

// nodeAt finds the node drawn in the cell under p. Nodes smaller than a
// cell still occupy the whole cell.
func (m *explorer) nodeAt(sc scene.Scene, p interaction.Point) string {
	if id := sc.NodeAt(p.X, p.Y); id != "" {
		return id
	}
	col, row := int(p.X/cellW), int(p.Y/cellH)
	for i := len(sc.Nodes) - 1; i >= 0; i-- {
		n := sc.Nodes[i]
		x, y := sc.Transform.Apply(n.X, n.Y)
		if int(x/cellW) == col && int(y/cellH) == row {
			return n.ID
		}
	}
	return ""
}

func (m *explorer) scene() scene.Scene {
	w, h := m.vp.Size()
	opts := m.opts.SceneOptions(graph.Layout{Width: w, Height: h}, m.loaded.Demo)
	opts.Busy = !m.vp.Ready()
	opts.HideControls = true
	idx := m.ctrl.Index()
	return scene.Build(idx.Nodes(), idx.ResolvedEdges(), m.ctrl.State(), opts)
}

// =============================================================================
// View
// =============================================================================

// cell kinds, in paint order
const (
	cellEmpty = iota
	cellEdge
	cellEdgeActive
	cellNode
	cellLabel
)

type cell struct {
	r     rune
	kind  int
	style lipgloss.Style
}

func (m *explorer) View() string {
	if m.cols == 0 {
		return "loading..."
	}
	sc := m.scene()
	canvasRows := max(m.rows-headerRows-footerRows, 1)

	var b strings.Builder
	b.WriteString(m.header(sc))
	b.WriteString("\n")
	b.WriteString(m.canvas(sc, m.cols, canvasRows))
	b.WriteString("\n")
	b.WriteString(m.footer(sc))
	return b.String()
}

func (m *explorer) header(sc scene.Scene) string {
	parts := []string{StyleTitle.Render(appName), StyleDim.Render(m.loaded.Source)}
	parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes · %d edges · zoom %.0f%%",
		sc.Stats.NodeCount, sc.Stats.EdgeCount, sc.Transform.Scale*100)))
	switch {
	case sc.Busy:
		parts = append(parts, StyleWarning.Render("laying out..."))
	case m.loaded.Demo:
		parts = append(parts, StyleWarning.Render("sample data"))
	case m.loaded.Stale:
		parts = append(parts, StyleWarning.Render("cached snapshot"))
	}
	if m.status != "" {
		parts = append(parts, StyleSuccess.Render(m.status))
	}
	return strings.Join(parts, "  ")
}

func (m *explorer) footer(sc scene.Scene) string {
	if m.panel.open && sc.Selected != "" {
		return lipgloss.NewStyle().Height(footerRows).MaxHeight(footerRows).Render(m.panel.view(m.cols))
	}

	var legend []string
	for _, e := range sc.Legend {
		legend = append(legend, typeStyle(graph.NodeType(e.Type)).Render("●")+" "+StyleDim.Render(fmt.Sprintf("%s %d", e.Label, e.Count)))
	}
	lines := []string{strings.Join(legend, "  ")}
	if m.loaded.Err != nil {
		lines = append(lines, StyleWarning.Render(kberrors.UserMessage(m.loaded.Err)))
	}
	if sc.Focus != "" {
		if n, ok := m.ctrl.Index().Node(sc.Focus); ok {
			lines = append(lines, typeStyle(n.Type).Render(n.DisplayLabel())+StyleDim.Render(fmt.Sprintf("  degree %d", m.ctrl.Index().Degree(n.ID))))
		}
	}
	lines = append(lines, StyleDim.Render("drag pan · wheel/+/- zoom · 0 reset · tab hover · enter select · r reload · q quit"))
	return lipgloss.NewStyle().Height(footerRows).MaxHeight(footerRows).Render(strings.Join(lines, "\n"))
}

// canvas rasterizes the scene into cols × rows terminal cells.
func (m *explorer) canvas(sc scene.Scene, cols, rows int) string {
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}
	put := func(col, row int, c cell) {
		if row < 0 || row >= rows || col < 0 || col >= cols || grid[row][col].kind > c.kind {
			return
		}
		grid[row][col] = c
	}
	toCell := func(x, y float64) (int, int) {
		sx, sy := sc.Transform.Apply(x, y)
		return int(math.Floor(sx / cellW)), int(math.Floor(sy / cellH))
	}

	if sc.Empty && !sc.Busy {
		return emptyCanvas(cols, rows, "no nodes to show")
	}

	edgeStyle := lipgloss.NewStyle().Foreground(colorDim)
	activeStyle := lipgloss.NewStyle().Foreground(colorGray)
	for _, e := range sc.Edges {
		c0, r0 := toCell(e.X1, e.Y1)
		c1, r1 := toCell(e.X2, e.Y2)
		kind, style, r := cellEdge, edgeStyle, '·'
		if e.Highlighted {
			kind, style, r = cellEdgeActive, activeStyle, '•'
		}
		line(c0, r0, c1, r1, func(c, rr int) { put(c, rr, cell{r: r, kind: kind, style: style}) })
	}

	for _, n := range sc.Nodes {
		col, row := toCell(n.X, n.Y)
		style := typeStyle(graph.NodeType(n.Type))
		glyph := '●'
		switch {
		case n.Selected:
			glyph = '◉'
			style = style.Bold(true)
		case n.Focused:
			glyph = '◎'
			style = style.Bold(true)
		case n.Opacity < 1:
			style = style.Faint(true)
		}
		put(col, row, cell{r: glyph, kind: cellNode, style: style})

		if n.Focused || n.Selected || n.Highlighted || sc.Transform.Scale >= 1.5 {
			labelStyle := StyleValue
			if !n.Focused && !n.Selected {
				labelStyle = StyleDim
			}
			for i, r := range []rune(n.Label) {
				put(col+2+i, row, cell{r: r, kind: cellLabel, style: labelStyle})
			}
		}
	}

	var b strings.Builder
	for i, rowCells := range grid {
		if i > 0 {
			b.WriteString("\n")
		}
		writeRow(&b, rowCells)
	}
	return b.String()
}

// writeRow renders runs of equally styled cells together.
func writeRow(b *strings.Builder, cells []cell) {
	for start := 0; start < len(cells); {
		end := start + 1
		for end < len(cells) && cells[end].kind == cells[start].kind && sameStyle(cells[end].style, cells[start].style) {
			end++
		}
		var run strings.Builder
		for _, c := range cells[start:end] {
			run.WriteRune(c.r)
		}
		if cells[start].kind == cellEmpty {
			b.WriteString(run.String())
		} else {
			b.WriteString(cells[start].style.Render(run.String()))
		}
		start = end
	}
}

func sameStyle(a, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() && a.GetBold() == b.GetBold() && a.GetFaint() == b.GetFaint()
}

func emptyCanvas(cols, rows int, msg string) string {
	return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, StyleDim.Render(msg))
}

// line walks the cells from (x0, y0) to (x1, y1) with Bresenham's
// algorithm, skipping both endpoints.
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	// Off-screen edges can span huge distances at high zoom.
	const maxSteps = 4096
	err := dx + dy
	x, y := x0, y0
	for step := 0; step < maxSteps; step++ {
		if x == x1 && y == y1 {
			return
		}
		if step > 0 {
			plot(x, y)
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
