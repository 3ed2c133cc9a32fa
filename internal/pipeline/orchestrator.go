package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rollwright/voterroll/constants"
	"github.com/rollwright/voterroll/internal/common"
	"github.com/rollwright/voterroll/internal/entity"
	"github.com/rollwright/voterroll/internal/extract"
	"github.com/rollwright/voterroll/internal/llm"
	"github.com/rollwright/voterroll/internal/normalize"
	"github.com/rollwright/voterroll/internal/repository"
)

// Orchestrator drives multi-file ingestion: strictly sequential, one file at
// a time, each completed unit (sheet or page) pushed to the store
// immediately so a crash never loses prior progress.
type Orchestrator struct {
	logger     *slog.Logger
	sheets     extract.SheetReader
	pages      extract.PageReader
	recognizer extract.Recognizer
	extractor  llm.VoterExtractor
	rows       *normalize.RowNormalizer
	store      repository.VoterStore
	metrics    *Metrics
}

func NewOrchestrator(
	logger *slog.Logger,
	sheets extract.SheetReader,
	pages extract.PageReader,
	recognizer extract.Recognizer,
	extractor llm.VoterExtractor,
	rows *normalize.RowNormalizer,
	store repository.VoterStore,
	metrics *Metrics,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		logger:     logger,
		sheets:     sheets,
		pages:      pages,
		recognizer: recognizer,
		extractor:  extractor,
		rows:       rows,
		store:      store,
		metrics:    metrics,
	}
}

// Options modifies one ingestion run. The API key travels with the run and
// is handed to every extraction call; no credential is cached.
type Options struct {
	APIKey string

	// LegacyOCR routes image files through the pattern-based text extractor
	// instead of the generative call.
	LegacyOCR bool
}

// Result is the outcome of one ingestion run.
type Result struct {
	// TotalExtracted counts records produced by extraction, pre-filter.
	TotalExtracted int
	// TotalPersisted counts records accepted by the store, post-filter.
	TotalPersisted int
	FailedFiles    int
	Events         []Event
	// Skipped holds preview-only records dropped by the validity filter.
	Skipped []entity.VoterRecord
}

// Run ingests the given files in input order.
func (o *Orchestrator) Run(ctx context.Context, paths []string, opts Options) Result {
	ctx = common.WithBatchID(ctx, uuid.New().String())
	log := NewEventLog(constants.EventLogCap)
	res := &Result{}
	rowOffset := 0

	for _, path := range paths {
		log.Appendf("file start: %s", filepath.Base(path))
		o.logger.Info("pipeline.file.start", "batch_id", common.BatchIDFromContext(ctx), "path", path)
		start := time.Now()

		if err := o.runFile(ctx, path, opts, log, res, &rowOffset); err != nil {
			res.FailedFiles++
			o.metrics.IncrementFailure("read")
			log.Appendf("file failed: %s: %v", filepath.Base(path), err)
			o.logger.Error("pipeline.file.failed", "path", path, "error", err)
			continue
		}

		log.Appendf("file done: %s", filepath.Base(path))
		o.logger.Info("pipeline.file.done",
			"path", path,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}

	res.Events = log.Events()
	return *res
}

func (o *Orchestrator) runFile(ctx context.Context, path string, opts Options, log *EventLog, res *Result, rowOffset *int) error {
	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		return common.NewAppError("UNSUPPORTED_FILE", path, common.ErrUnsupportedFile)
	}

	switch format {
	case constants.SHEET:
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return o.runSheets(ctx, data, log, res, rowOffset)
	case constants.PDF:
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return o.runPages(ctx, data, opts, log, res)
	case constants.IMAGE:
		return o.runImage(ctx, path, opts, log, res)
	}
	return nil
}

// runSheets normalizes every sheet and pushes each sheet's batch before
// moving on. The row offset spans sheets and files so synthesized serials
// stay tied to position across the whole run.
func (o *Orchestrator) runSheets(ctx context.Context, data []byte, log *EventLog, res *Result, rowOffset *int) error {
	sheets, err := o.sheets.ReadSheets(data)
	if err != nil {
		return err
	}
	for _, sheet := range sheets {
		log.Appendf("sheet start: %s (%d rows)", sheet.Name, len(sheet.Rows))
		records := o.rows.Normalize(sheet.Rows, *rowOffset)
		*rowOffset += len(sheet.Rows)
		o.push(ctx, records, "sheet "+sheet.Name, log, res)
	}
	return nil
}

// runPages sends each page's text through the generative path, capped at the
// first MaxPDFPages pages. A failed page is logged and skipped; remaining
// pages still run.
func (o *Orchestrator) runPages(ctx context.Context, data []byte, opts Options, log *EventLog, res *Result) error {
	pages, err := o.pages.ReadPages(data)
	if err != nil {
		return err
	}
	if len(pages) > constants.MaxPDFPages {
		log.Appendf("page cap: processing first %d of %d pages", constants.MaxPDFPages, len(pages))
		pages = pages[:constants.MaxPDFPages]
	}

	for i, text := range pages {
		log.Appendf("page %d start", i+1)
		records, _, err := o.extractor.ExtractVoters(ctx, llm.ExtractRequest{
			Text:   text,
			APIKey: opts.APIKey,
		})
		if err != nil {
			o.metrics.IncrementFailure("extract")
			if errors.Is(err, llm.ErrQuotaExceeded) {
				log.Appendf("page %d: extraction quota exhausted", i+1)
			} else {
				log.Appendf("page %d: extraction failed: %v", i+1, err)
			}
			o.logger.Error("pipeline.page.extract_failed", "page", i+1, "error", err)
			continue
		}
		log.Appendf("page %d: extracted %d records", i+1, len(records))
		o.push(ctx, records, "page", log, res)
	}
	return nil
}

func (o *Orchestrator) runImage(ctx context.Context, path string, opts Options, log *EventLog, res *Result) error {
	if opts.LegacyOCR && o.recognizer != nil {
		text, err := o.recognizer.RecognizeText(ctx, path)
		if err != nil {
			return err
		}
		records := normalize.ExtractFromText(text)
		log.Appendf("ocr: extracted %d records", len(records))
		o.push(ctx, records, "ocr", log, res)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	records, _, err := o.extractor.ExtractVoters(ctx, llm.ExtractRequest{
		ImageB64: base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
		APIKey:   opts.APIKey,
	})
	if err != nil {
		o.metrics.IncrementFailure("extract")
		return err
	}
	log.Appendf("image: extracted %d records", len(records))
	o.push(ctx, records, "image", log, res)
	return nil
}

// push applies the validity filter and commits the survivors immediately.
// Store failures are logged and skipped; persisted counters stay untouched.
func (o *Orchestrator) push(ctx context.Context, records []entity.VoterRecord, unit string, log *EventLog, res *Result) {
	res.TotalExtracted += len(records)
	o.metrics.AddExtracted(len(records))

	valid := records[:0:0]
	for _, r := range records {
		if r.IsPersistable() {
			valid = append(valid, r)
		} else {
			res.Skipped = append(res.Skipped, r)
		}
	}
	if len(valid) < len(records) {
		log.Appendf("%s: %d records held back by validity filter", unit, len(records)-len(valid))
	}
	if len(valid) == 0 {
		return
	}

	if err := o.store.UpsertVoters(ctx, valid); err != nil {
		o.metrics.IncrementFailure("persist")
		log.Appendf("%s: store write failed: %v", unit, err)
		o.logger.Error("pipeline.persist.failed", "unit", unit, "count", len(valid), "error", err)
		return
	}
	res.TotalPersisted += len(valid)
	o.metrics.AddPersisted(len(valid))
	log.Appendf("%s: persisted %d records", unit, len(valid))
	o.logger.Info("pipeline.persist.ok", "unit", unit, "count", len(valid))
}
