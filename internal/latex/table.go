package latex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRowTooWide is returned when a row has more cells than the table has columns.
var ErrRowTooWide = errors.New("row wider than table")

// Table describes a booktabs tabular with a fixed column count.
type Table struct {
	Align       string // column alignment, e.g. "lllSSSS"
	Width       int    // number of columns
	Header      string // header cells joined by " & ", without the row terminator
	Placeholder string // text of the single row emitted when there are no rows
}

// Render writes the table. Short rows are padded with empty cells; an empty
// row set yields one spanning placeholder row.
func (t Table) Render(rows [][]string) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\\begin{tabular}{%s}\n", t.Align))
	sb.WriteString("\\toprule\n")
	sb.WriteString(t.Header + "\\\\\n")
	sb.WriteString("\\midrule\n")

	if len(rows) == 0 {
		sb.WriteString(fmt.Sprintf("\\multicolumn{%d}{c}{\\emph{%s}}\\\\\n", t.Width, t.Placeholder))
	}
	for i, row := range rows {
		if len(row) > t.Width {
			return "", fmt.Errorf("%w: row %d has %d cells, table has %d columns", ErrRowTooWide, i, len(row), t.Width)
		}
		cells := make([]string, t.Width)
		copy(cells, row)
		sb.WriteString(strings.Join(cells, " & ") + "\\\\\n")
	}

	sb.WriteString("\\bottomrule\n")
	sb.WriteString("\\end{tabular}\n")
	return sb.String(), nil
}

// Macros accumulates one macro definition per line.
type Macros struct {
	command string
	sb      strings.Builder
}

// NewMacros starts a macro file with a leading comment line. command is
// "newcommand" or "renewcommand".
func NewMacros(command, comment string) *Macros {
	m := &Macros{command: command}
	m.sb.WriteString("% " + comment + "\n")
	return m
}

// Def appends \command{\name}{body}.
func (m *Macros) Def(name, body string) {
	m.sb.WriteString(fmt.Sprintf("\\%s{\\%s}{%s}\n", m.command, name, body))
}

// String returns the accumulated file contents.
func (m *Macros) String() string {
	return m.sb.String()
}
