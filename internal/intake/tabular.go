package intake

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"whitepaper-gen/internal/domain"
)

// Table is a header-keyed view of a CSV or XLSX sheet. Header names are
// trimmed and lowercased; cells are trimmed.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Has reports whether every named column is present.
func (t *Table) Has(columns ...string) bool {
	for _, c := range columns {
		found := false
		for _, h := range t.Headers {
			if h == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ReadTable reads a CSV file, or the first sheet of an .xlsx/.xlsm workbook.
func ReadTable(fsys afero.Fs, path string) (*Table, error) {
	data, err := readFile(fsys, path)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbookRows(data)
	default:
		rows, err = readCSVRows(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: no header row", ErrMalformed, path)
	}
	return buildTable(rows), nil
}

func readCSVRows(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readWorkbookRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func buildTable(rows [][]string) *Table {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	t := &Table{Headers: headers, Rows: make([]map[string]string, 0, len(rows)-1)}
	for _, raw := range rows[1:] {
		if isBlankRecord(raw) {
			continue
		}
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			if _, dup := row[h]; dup || h == "" {
				continue
			}
			if j < len(raw) {
				row[h] = strings.TrimSpace(raw[j])
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func isBlankRecord(raw []string) bool {
	for _, c := range raw {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ciColumns picks the interval column pair: ci_low/ci_high when both exist,
// otherwise lower_ci/upper_ci.
func ciColumns(t *Table) (low, high string) {
	if t.Has("ci_low", "ci_high") {
		return "ci_low", "ci_high"
	}
	return "lower_ci", "upper_ci"
}

// MetricRows converts a long-format metrics table into metric rows. A table
// without metric and value columns yields ErrMalformed.
func MetricRows(t *Table) ([]domain.MetricRow, error) {
	if !t.Has("metric", "value") {
		return nil, fmt.Errorf("%w: metrics table lacks metric/value columns", ErrMalformed)
	}
	lowCol, highCol := ciColumns(t)

	out := make([]domain.MetricRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if strings.TrimSpace(r["metric"]) == "" {
			continue
		}
		out = append(out, domain.MetricRow{
			Metric:         r["metric"],
			Group:          r["group"],
			Value:          ParseFloat(r["value"]),
			CILow:          ParseFloat(r[lowCol]),
			CIHigh:         ParseFloat(r[highCol]),
			PValue:         ParseFloat(r["p_value"]),
			ReferenceGroup: r["reference_group"],
			RunID:          r["run_id"],
			ModelID:        r["model_id"],
			Split:          r["split"],
			CIDegenerate:   truthyText(r["ci_degenerate"]),
		})
	}
	return out, nil
}

// LoadMetricRows reads a metrics table file into rows.
func LoadMetricRows(fsys afero.Fs, path string) ([]domain.MetricRow, error) {
	t, err := ReadTable(fsys, path)
	if err != nil {
		return nil, err
	}
	rows, err := MetricRows(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
