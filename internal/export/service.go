package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rollwright/voterroll/internal/entity"
	"github.com/rollwright/voterroll/internal/repository"
)

// Service is a tiny façade over the voter store that produces backup and
// workbook bytes for exports.
type Service struct {
	store  repository.VoterStore
	logger *slog.Logger
}

func NewService(store repository.VoterStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportJSON serializes the full store read to a pretty JSON array, the
// backup format shared with restore.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	recs, err := s.store.ListVoters(ctx)
	if err != nil {
		return nil, fmt.Errorf("query voters: %w", err)
	}
	if recs == nil {
		recs = []entity.VoterRecord{}
	}
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	s.logger.Info("export.json.ok", "records", len(recs), "bytes", len(b))
	return b, nil
}

// RestoreJSON parses a backup array and routes it through the same
// upsert-by-key call as live ingestion. Restore trusts previously-exported
// data to already be canonical; there is no second validation pass.
func (s *Service) RestoreJSON(ctx context.Context, data []byte) (int, error) {
	var recs []entity.VoterRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return 0, fmt.Errorf("parse backup: %w", err)
	}
	if err := s.store.UpsertVoters(ctx, recs); err != nil {
		return 0, fmt.Errorf("restore upsert: %w", err)
	}
	s.logger.Info("export.restore.ok", "records", len(recs))
	return len(recs), nil
}

// ExportXLSX returns the full store as an XLSX workbook for tabular review.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	recs, err := s.store.ListVoters(ctx)
	if err != nil {
		return nil, fmt.Errorf("query voters: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Voters"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Serial No",
		"EPIC No",
		"Name",
		"Age",
		"Gender",
		"Father/Husband Name",
		"Part No",
		"Part Name",
		"Assembly Constituency",
		"Parliamentary Constituency",
		"District",
		"State",
		"Polling Station",
		"Station Address",
		"Last Updated",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.SerialNo)
		write(2, r.EpicNo)
		write(3, r.Name)
		write(4, r.Age)
		write(5, string(r.Gender))
		write(6, r.ParentSpouseName)
		write(7, r.PartNo)
		write(8, r.PartName)
		write(9, r.AssemblyConstituency)
		write(10, r.ParliamentaryConstituency)
		write(11, r.District)
		write(12, r.State)
		write(13, r.PollingStation.Name)
		write(14, r.PollingStation.Address)
		write(15, r.LastUpdated.Format("2006-01-02 15:04:05"))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 10)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "C", "C", 28)
	_ = f.SetColWidth(sheet, "F", "F", 28)
	_ = f.SetColWidth(sheet, "M", "N", 36)
	_ = f.SetColWidth(sheet, "O", "O", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
