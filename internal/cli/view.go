package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/campusgrid/orgcanvas/pkg/chart"
	"github.com/campusgrid/orgcanvas/pkg/config"
	"github.com/campusgrid/orgcanvas/pkg/layout"
	"github.com/campusgrid/orgcanvas/pkg/org"
	"github.com/campusgrid/orgcanvas/pkg/tree"
	"github.com/campusgrid/orgcanvas/pkg/view"
)

// newViewCmd creates the view command for browsing a chart in the terminal.
func newViewCmd() *cobra.Command {
	var configPath, fixture, subject string

	cmd := &cobra.Command{
		Use:   "view [company-id]",
		Short: "Browse a company's organization chart interactively",
		Long: `Browse a company's organization chart in the terminal.

Nodes expand and collapse in place, hierarchy levels toggle on and off, and
the canvas zooms and pans like the web view. Children are loaded lazily from
the store as nodes are expanded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID := ""
			if len(args) > 0 {
				companyID = args[0]
			}
			return runView(cmd.Context(), configPath, fixture, subject, companyID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file")
	cmd.Flags().StringVar(&fixture, "fixture", "", "YAML fixture file to browse instead of the configured store")
	cmd.Flags().StringVar(&subject, "subject", "", "authorization subject")

	return cmd
}

func runView(ctx context.Context, configPath, fixture, subject, companyID string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if companyID == "" {
		if fixture == "" {
			return fmt.Errorf("company ID is required without --fixture")
		}
		company, err := org.ReadFixtureFile(fixture)
		if err != nil {
			return err
		}
		companyID = company.ID
	}

	svc, err := newService(ctx, cfg, fixture, logger)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close(ctx) }()

	m := newCanvasModel(ctx, svc, companyID, subject)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if cm, ok := final.(canvasModel); ok && cm.err != nil {
		return cm.err
	}
	return nil
}

// =============================================================================
// CanvasModel - Interactive chart browsing
// =============================================================================

// Canvas styles
var (
	canvasCursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	canvasNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	canvasInactiveStyle = lipgloss.NewStyle().Foreground(colorDim)
	canvasLevelOnStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	canvasLevelOffStyle = lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true)
)

// treeMsg carries a freshly assembled tree back into the update loop.
type treeMsg struct {
	nodes tree.Map
	err   error
}

// canvasModel is the bubbletea model for the interactive chart.
type canvasModel struct {
	ctx     context.Context
	svc     *chart.Service
	company string
	subject string

	nodes        tree.Map   // full potential tree for the current fetch set
	state        view.State // expansion, level visibility, zoom, pan
	res          layout.Result
	rows         []string // visible node IDs in display order
	cursor       int
	showInactive bool
	loading      bool
	width        int
	height       int
	err          error
}

func newCanvasModel(ctx context.Context, svc *chart.Service, companyID, subject string) canvasModel {
	return canvasModel{
		ctx:     ctx,
		svc:     svc,
		company: companyID,
		subject: subject,
		state:   view.NewState(tree.NodeID(tree.KindCompany, companyID)),
		loading: true,
		width:   80,
		height:  24,
	}
}

func (m canvasModel) Init() tea.Cmd {
	return m.fetch()
}

// fetch loads the tree for the current expansion set.
func (m canvasModel) fetch() tea.Cmd {
	expanded := make([]string, 0, len(m.state.Expanded))
	for id := range m.state.Expanded {
		expanded = append(expanded, id)
	}
	sort.Strings(expanded)

	svc, ctx := m.svc, m.ctx
	opts := chart.Options{
		CompanyID:    m.company,
		Subject:      m.subject,
		ShowInactive: m.showInactive,
		Expanded:     expanded,
	}
	return func() tea.Msg {
		nodes, err := svc.BuildTree(ctx, opts)
		return treeMsg{nodes: nodes, err: err}
	}
}

func (m canvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case treeMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.nodes = msg.nodes
		m.state.PruneExpansion(m.nodes)
		m.relayout()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m canvasModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "enter", " ":
		if m.cursor < len(m.rows) {
			if needsFetch := m.state.ToggleNode(m.nodes, m.rows[m.cursor]); needsFetch {
				m.loading = true
				return m, m.fetch()
			}
			m.relayout()
		}

	case "1", "2", "3", "4", "5":
		lvl := int(msg.String()[0] - '1')
		m.state.ToggleLevel(m.nodes, tree.Levels[lvl])
		m.relayout()

	case "i":
		m.showInactive = !m.showInactive
		m.loading = true
		return m, m.fetch()

	case "+", "=":
		m.state.ZoomIn()
	case "-", "_":
		m.state.ZoomOut()
	case "f":
		m.state.FitToScreen(m.viewport(), m.res.Size)
	case "r":
		m.state.ResetZoom(m.viewport(), m.res.Size)
	case "F":
		m.state.SetFullscreen(!m.state.Fullscreen, m.viewport(), m.res.Size)

	case "left":
		m.state.Pan.X += 40
	case "right":
		m.state.Pan.X -= 40
	case "shift+up":
		m.state.Pan.Y += 40
	case "shift+down":
		m.state.Pan.Y -= 40
	}
	return m, nil
}

// relayout recomputes the visible projection and its layout, and rebuilds the
// display rows.
func (m *canvasModel) relayout() {
	visible := tree.Visible(m.nodes, m.state.VisibleLevels, m.state.Expanded)
	rootID := ""
	if root := visible.Root(); root != nil {
		rootID = root.ID
	}
	m.res = layout.Compute(visible, layout.EstimateDimensions(visible), layout.DefaultConfig(), rootID)

	m.rows = m.rows[:0]
	m.walk(visible, rootID, &m.rows)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// walk appends the subtree's node IDs depth-first, matching the on-screen
// order.
func (m *canvasModel) walk(visible tree.Map, id string, out *[]string) {
	n, ok := visible[id]
	if !ok {
		return
	}
	*out = append(*out, id)
	for _, child := range n.Children {
		m.walk(visible, child, out)
	}
}

func (m canvasModel) viewport() view.Viewport {
	return view.Viewport{Width: float64(m.width) * 10, Height: float64(m.height) * 20}
}

func (m canvasModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("OrgCanvas"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.company))
	b.WriteString("\n")
	b.WriteString(m.headerLine())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(StyleDim.Render("  loading..."))
		b.WriteString("\n")
		return b.String()
	}

	maxRows := m.height - 7
	if maxRows < 5 {
		maxRows = 5
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}
	end := start + maxRows
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ move  ⏎ expand/collapse  1-5 levels  +/- zoom  f fit  r reset  F full  i inactive  q quit"))
	return b.String()
}

// headerLine shows zoom, canvas size, and which levels are visible.
func (m canvasModel) headerLine() string {
	parts := []string{
		fmt.Sprintf("zoom %3.0f%%", m.state.Zoom*100),
		fmt.Sprintf("canvas %.0fx%.0f", m.res.Size.Width, m.res.Size.Height),
	}
	levels := make([]string, 0, len(tree.Levels))
	for i, k := range tree.Levels {
		label := fmt.Sprintf("%d:%s", i+1, k)
		if m.state.VisibleLevels[k] {
			levels = append(levels, canvasLevelOnStyle.Render(label))
		} else {
			levels = append(levels, canvasLevelOffStyle.Render(label))
		}
	}
	return StyleDim.Render(strings.Join(parts, "  ")) + "  " + strings.Join(levels, " ")
}

func (m canvasModel) renderRow(id string, selected bool) string {
	n := m.nodes[id]
	if n == nil {
		return ""
	}

	indent := strings.Repeat("  ", n.Kind.Level())

	marker := "  "
	if len(n.Children) > 0 || n.Kind != tree.KindSection {
		if m.state.Expanded[id] {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}

	pos := ""
	if p, ok := m.res.Positions[id]; ok {
		pos = StyleDim.Render(fmt.Sprintf("  (%.0f, %.0f)", p.X, p.Y))
	}

	label := n.Label
	style := canvasNormalStyle
	if n.Status != "" && n.Status != org.StatusActive {
		style = canvasInactiveStyle
		label += " [" + n.Status + "]"
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
		style = canvasCursorStyle
	}

	return cursor + indent + marker + style.Render(label) + pos
}
