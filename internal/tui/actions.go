package tui

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/surftab/surftab/internal/report"
	"github.com/surftab/surftab/internal/types"
)

type statusMsg string

// previewLines caps how much of the raw results file the detail pane shows.
const previewLines = 60

// copyRowToClipboard copies the selected facet as a one-row CSV, header
// included, so it pastes cleanly into a spreadsheet.
func (m *Model) copyRowToClipboard() tea.Cmd {
	idx := m.table.Cursor()
	if m.tbl == nil || idx < 0 || idx >= len(m.tbl.Rows) {
		return nil
	}
	one := &types.Table{
		Rows:      m.tbl.Rows[idx : idx+1],
		HasVacuum: m.tbl.HasVacuum,
		HasCore:   m.tbl.HasCore,
	}
	hkl := m.tbl.Rows[idx].Miller.String()
	return func() tea.Msg {
		if err := clipboard.WriteAll(string(report.CSVBytes(one))); err != nil {
			return statusMsg(fmt.Sprintf("Copy failed: %v", err))
		}
		return statusMsg(fmt.Sprintf("Copied facet %s as CSV", hkl))
	}
}

// copyTableToClipboard copies the whole table as CSV.
func (m *Model) copyTableToClipboard() tea.Cmd {
	tbl := m.tbl
	return func() tea.Msg {
		if err := clipboard.WriteAll(string(report.CSVBytes(tbl))); err != nil {
			return statusMsg(fmt.Sprintf("Copy failed: %v", err))
		}
		return statusMsg(fmt.Sprintf("Copied %d rows as CSV", len(tbl.Rows)))
	}
}

// previewContent renders the head of the selected facet's vasprun.xml,
// syntax highlighted. The gzip variant is tried when the plain file is
// missing, same as the parsers do.
func (m *Model) previewContent() string {
	r := m.selectedRecord()
	if r == nil || r.SourceDir == "" {
		return hintStyle.Render("no source directory recorded for this row")
	}

	path := filepath.Join(r.SourceDir, "vasprun.xml")
	head, err := readHead(path, previewLines)
	if err != nil {
		return hintStyle.Render(fmt.Sprintf("cannot preview %s: %v", path, err))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(path) + "\n\n")
	b.WriteString(highlightCode(head, "vasprun.xml"))
	return b.String()
}

// readHead returns the first n lines of path, decompressing a ".gz"
// sibling when the plain file is absent.
func readHead(path string, n int) (string, error) {
	var r io.Reader
	f, err := os.Open(path)
	if err != nil {
		gz, gzErr := os.Open(path + ".gz")
		if gzErr != nil {
			return "", err
		}
		defer gz.Close()
		zr, zErr := gzip.NewReader(gz)
		if zErr != nil {
			return "", zErr
		}
		defer zr.Close()
		r = zr
	} else {
		defer f.Close()
		r = f
	}

	var b strings.Builder
	sc := bufio.NewScanner(r)
	for i := 0; i < n && sc.Scan(); i++ {
		b.WriteString(sc.Text())
		b.WriteByte('\n')
	}
	return b.String(), sc.Err()
}

func highlightCode(code string, filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	err = formatter.Format(&buf, style, iterator)
	if err != nil {
		return code
	}

	return buf.String()
}
