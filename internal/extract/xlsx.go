package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads workbook buffers with excelize.
type XLSXReader struct {
	logger *slog.Logger
}

func NewXLSXReader(logger *slog.Logger) *XLSXReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXReader{logger: logger}
}

// ReadSheets returns every worksheet in workbook order. The first row is the
// header row; blank header cells get positional ColumnN names so no cell is
// unreachable by the resolver. Rows that are entirely empty are skipped.
func (r *XLSXReader) ReadSheets(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("workbook close error", "error", err)
		}
	}()

	var out []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		out = append(out, Sheet{Name: name, Rows: rowMaps(rows)})
	}
	return out, nil
}

func rowMaps(rows [][]string) []map[string]any {
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column%d", i+1)
		}
		headers[i] = h
	}

	out := make([]map[string]any, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if allEmpty(cells) {
			continue
		}
		m := make(map[string]any, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				m[h] = cells[i]
			} else {
				m[h] = ""
			}
		}
		out = append(out, m)
	}
	return out
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
