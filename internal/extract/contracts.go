package extract

import "context"

// Sheet is one worksheet's rows in source order. Row keys are the header
// cells of the first row.
type Sheet struct {
	Name string
	Rows []map[string]any
}

// SheetReader turns a spreadsheet file buffer into ordered sheets.
type SheetReader interface {
	ReadSheets(data []byte) ([]Sheet, error)
}

// PageReader turns a page-oriented document buffer into per-page text, each
// page's tokens joined by spaces.
type PageReader interface {
	ReadPages(data []byte) ([]string, error)
}

// Recognizer is the legacy OCR collaborator: image in, final raw text out.
// Progress reporting is the collaborator's concern, not ours.
type Recognizer interface {
	RecognizeText(ctx context.Context, imagePath string) (string, error)
}
