package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/surftab/surftab/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const defaultStatus = "q: quit | ?: help | j/k: navigate | u: toggle unit | p: preview | y: copy row | Y: copy table"

// Model represents the main state of the facet browser.
type Model struct {
	table    table.Model
	viewport viewport.Model
	tbl      *types.Table
	prefs    Prefs

	quitting    bool
	ready       bool // terminal dimensions known
	showEmpty   bool
	showHelp    bool
	showPreview bool // detail pane shows the raw vasprun.xml head

	height        int
	width         int
	statusMessage string
}

// NewModel initializes a browser over an aggregated table.
func NewModel(tbl *types.Table) Model {
	prefs := LoadPrefs()

	t := table.New(
		table.WithColumns(browserColumns(tbl, prefs.EnergyUnit)),
		table.WithRows(browserRows(tbl, prefs.EnergyUnit)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)

	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)

	s.Cell = lipgloss.NewStyle().
		Padding(0, 1)

	t.SetStyles(s)

	m := Model{
		table:         t,
		tbl:           tbl,
		prefs:         prefs,
		showEmpty:     tbl == nil || len(tbl.Rows) == 0,
		statusMessage: defaultStatus,
	}
	if m.showEmpty {
		m.statusMessage = "q: quit"
	}
	return m
}

// browserColumns returns the table widget columns; the energy column title
// follows the selected unit.
func browserColumns(tbl *types.Table, unit string) []table.Column {
	cols := []table.Column{
		{Title: "hkl", Width: 8},
		{Title: "area", Width: 10},
		{Title: "atoms", Width: 7},
		{Title: "bandgap", Width: 9},
		{Title: "E_surf (" + unit + ")", Width: 18},
	}
	if tbl != nil && tbl.HasVacuum {
		cols = append(cols, table.Column{Title: "vacuum", Width: 10})
	}
	if tbl != nil && tbl.HasCore {
		cols = append(cols, table.Column{Title: "core", Width: 12})
	}
	return cols
}

func browserRows(tbl *types.Table, unit string) []table.Row {
	if tbl == nil {
		return nil
	}
	rows := make([]table.Row, len(tbl.Rows))
	for i, r := range tbl.Rows {
		energy := r.SurfaceEnergy
		if unit == UnitEV {
			energy = r.SurfaceEnergyEV
		}
		row := table.Row{
			r.Miller.String(),
			types.FormatFloat(r.Area),
			fmt.Sprintf("%d", r.Atoms),
			types.FormatFloat(r.Bandgap),
			types.FormatFloat(energy),
		}
		if tbl.HasVacuum {
			row = append(row, types.FormatFloat(r.VacuumPotential))
		}
		if tbl.HasCore {
			row = append(row, types.FormatFloat(r.CoreEnergy))
		}
		rows[i] = row
	}
	return rows
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) toggleUnit() {
	if m.prefs.EnergyUnit == UnitMJ {
		m.prefs.EnergyUnit = UnitEV
	} else {
		m.prefs.EnergyUnit = UnitMJ
	}
	_ = SavePrefs(m.prefs)

	cursor := m.table.Cursor()
	m.table.SetColumns(browserColumns(m.tbl, m.prefs.EnergyUnit))
	m.table.SetRows(browserRows(m.tbl, m.prefs.EnergyUnit))
	m.table.SetCursor(cursor)
	m.statusMessage = "Surface energy in " + m.prefs.EnergyUnit
}

func (m *Model) selectedRecord() *types.Record {
	idx := m.table.Cursor()
	if m.tbl == nil || idx < 0 || idx >= len(m.tbl.Rows) {
		return nil
	}
	return &m.tbl.Rows[idx]
}

// detailContent renders every column of the selected row plus its source
// directory.
func (m *Model) detailContent() string {
	r := m.selectedRecord()
	if r == nil {
		return ""
	}
	idx := m.table.Cursor()
	cols := m.tbl.Columns()
	vals := m.tbl.Row(idx)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Facet Details") + "\n\n")
	for i, c := range cols {
		v := vals[i]
		if v == "" {
			v = hintStyle.Render("n/a")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render(c+":"), v))
	}
	b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render("source:"), r.SourceDir))
	return b.String()
}

func (m *Model) helpContent() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys") + "\n\n")
	for _, line := range []string{
		"j/k, up/down   move between facets",
		"g/G            first / last facet",
		"u              toggle energy unit (persisted)",
		"p              preview the facet's vasprun.xml",
		"y              copy selected row as CSV",
		"Y              copy the whole table as CSV",
		"esc            close preview/help",
		"q              quit",
	} {
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) refreshViewport() {
	switch {
	case m.showHelp:
		m.viewport.SetContent(m.helpContent())
	case m.showPreview:
		m.viewport.SetContent(m.previewContent())
	default:
		m.viewport.SetContent(m.detailContent())
	}
	m.viewport.GotoTop()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if m.showHelp || m.showPreview {
				m.showHelp = false
				m.showPreview = false
				m.statusMessage = defaultStatus
				m.refreshViewport()
			}
			return m, nil
		case "?", "h":
			m.showHelp = !m.showHelp
			m.showPreview = false
			m.refreshViewport()
			return m, nil
		case "u":
			if !m.showEmpty {
				m.toggleUnit()
				m.refreshViewport()
			}
			return m, nil
		case "p":
			if !m.showEmpty {
				m.showPreview = !m.showPreview
				m.showHelp = false
				m.refreshViewport()
			}
			return m, nil
		case "y":
			if !m.showEmpty {
				return m, m.copyRowToClipboard()
			}
		case "Y":
			if !m.showEmpty {
				return m, m.copyTableToClipboard()
			}
		case "down", "j", "up", "k":
			if !m.showEmpty {
				m.table, cmd = m.table.Update(msg)
				m.showPreview = false
				m.refreshViewport()
				return m, cmd
			}
		case "g", "home":
			if !m.showEmpty {
				m.table.GotoTop()
				m.showPreview = false
				m.refreshViewport()
				return m, nil
			}
		case "G", "end":
			if !m.showEmpty {
				m.table.GotoBottom()
				m.showPreview = false
				m.refreshViewport()
				return m, nil
			}
		case "pgdown", "ctrl+f":
			if !m.showEmpty {
				m.table.MoveDown(m.table.Height())
				m.refreshViewport()
				return m, nil
			}
		case "pgup", "ctrl+b":
			if !m.showEmpty {
				m.table.MoveUp(m.table.Height())
				m.refreshViewport()
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.table.SetWidth(m.width)
		availableHeight := m.height - lipgloss.Height(statusStyle.Render("")) - 1
		tableHeight := int(float64(availableHeight) * 0.4)
		if tableHeight < 3 {
			tableHeight = 3
		}
		m.table.SetHeight(tableHeight)

		viewportHeight := availableHeight - tableHeight - detailPaneBorderStyle.GetVerticalFrameSize() - 1
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if m.viewport.Height == 0 {
			m.viewport = viewport.New(m.width, viewportHeight)
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.refreshViewport()
		statusStyle = statusStyle.Width(m.width)

	case statusMsg:
		m.statusMessage = string(msg)
	}

	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showEmpty {
		return emptyTextStyle.Render("\nNo facets parsed.\n\nq: quit\n")
	}
	if !m.ready {
		return "loading..."
	}

	title := titleStyle.Render(fmt.Sprintf("surftab  %d facets  [%s]", len(m.tbl.Rows), m.prefs.EnergyUnit))
	return title + "\n" +
		tableBorderStyle.Render(m.table.View()) + "\n" +
		detailPaneBorderStyle.Render(m.viewport.View()) + "\n" +
		statusStyle.Render(m.statusMessage)
}
