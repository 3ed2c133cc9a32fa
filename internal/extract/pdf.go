package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFReader extracts per-page text from PDF buffers. pdfcpu validates the
// buffer and supplies a cheap page count; the text itself comes from
// ledongthuc/pdf's row reader.
type PDFReader struct {
	logger *slog.Logger
}

func NewPDFReader(logger *slog.Logger) *PDFReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFReader{logger: logger}
}

// ReadPages returns one string per page, that page's text tokens joined by
// single spaces. A page that cannot be read yields an empty string rather
// than failing the document.
func (r *PDFReader) ReadPages(data []byte) ([]string, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("pdf page count: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	if n := reader.NumPage(); n < count {
		count = n
	}

	pages := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		pages = append(pages, r.pageText(reader, i))
	}
	return pages, nil
}

func (r *PDFReader) pageText(reader *pdf.Reader, n int) string {
	p := reader.Page(n)
	if p.V.IsNull() {
		return ""
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		r.logger.Warn("pdf page text error", "page", n, "error", err)
		return ""
	}
	var tokens []string
	for _, row := range rows {
		for _, word := range row.Content {
			if s := strings.TrimSpace(word.S); s != "" {
				tokens = append(tokens, s)
			}
		}
	}
	return strings.Join(tokens, " ")
}
