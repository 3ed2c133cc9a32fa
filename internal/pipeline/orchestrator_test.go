package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rollwright/voterroll/internal/entity"
	"github.com/rollwright/voterroll/internal/extract"
	"github.com/rollwright/voterroll/internal/llm"
	"github.com/rollwright/voterroll/internal/normalize"
	"github.com/rollwright/voterroll/internal/resolve"
)

type fakeStore struct {
	batches    [][]entity.VoterRecord
	failUpsert bool
}

func (s *fakeStore) UpsertVoters(_ context.Context, records []entity.VoterRecord) error {
	if s.failUpsert {
		return fmt.Errorf("connection refused")
	}
	s.batches = append(s.batches, records)
	return nil
}

func (s *fakeStore) DeleteVoter(context.Context, string) error { return nil }
func (s *fakeStore) DeleteAll(context.Context) error           { return nil }
func (s *fakeStore) ListVoters(context.Context) ([]entity.VoterRecord, error) {
	var all []entity.VoterRecord
	for _, b := range s.batches {
		all = append(all, b...)
	}
	return all, nil
}
func (s *fakeStore) SearchVoters(context.Context, string) ([]entity.VoterRecord, error) {
	return nil, nil
}

func (s *fakeStore) total() int {
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

type fakeExtractor struct {
	calls   int
	failOn  map[int]error // 1-based call number -> error
	perCall []entity.VoterRecord
}

func (f *fakeExtractor) ExtractVoters(context.Context, llm.ExtractRequest) ([]entity.VoterRecord, llm.Meta, error) {
	f.calls++
	if err, ok := f.failOn[f.calls]; ok {
		return nil, nil, err
	}
	return f.perCall, nil, nil
}

type fakePages struct {
	pages []string
}

func (f *fakePages) ReadPages([]byte) ([]string, error) { return f.pages, nil }

type fakeRecognizer struct {
	text string
}

func (f *fakeRecognizer) RecognizeText(context.Context, string) (string, error) {
	return f.text, nil
}

func newTestOrchestrator(store *fakeStore, pages extract.PageReader, ex llm.VoterExtractor, rec extract.Recognizer) *Orchestrator {
	return NewOrchestrator(
		nil,
		extract.NewXLSXReader(nil),
		pages,
		rec,
		ex,
		normalize.NewRowNormalizer(resolve.DefaultAliases(), nil),
		store,
		NewMetrics(prometheus.NewRegistry()),
	)
}

func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	path := filepath.Join(t.TempDir(), "roll.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRunSheetIngestionWithValidityFilter(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Part 12": {
			{"EPIC", "Name", "Age", "Gender"},
			{"XYZ1234567", "Asha Patil", "34", "F"},
			{"", "Ravi Kumar", "45", "M"},      // pending key -> filtered
			{"ABC7654321", "", "61", "Male"},   // unknown name -> filtered
		},
	})

	store := &fakeStore{}
	orch := newTestOrchestrator(store, &fakePages{}, &fakeExtractor{}, nil)

	res := orch.Run(context.Background(), []string{path}, Options{})

	assert.Equal(t, 3, res.TotalExtracted)
	assert.Equal(t, 1, res.TotalPersisted)
	assert.Len(t, res.Skipped, 2)
	assert.Equal(t, 0, res.FailedFiles)
	require.Equal(t, 1, store.total())
	assert.Equal(t, "Asha Patil", store.batches[0][0].Name)
	assert.NotEmpty(t, res.Events)
}

func TestRunPageCapAndPerPageIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roll.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-fake"), 0o644))

	pages := make([]string, 12)
	for i := range pages {
		pages[i] = fmt.Sprintf("page %d", i+1)
	}
	ex := &fakeExtractor{
		failOn: map[int]error{1: &llm.QuotaError{Cause: fmt.Errorf("resource exhausted")}},
		perCall: []entity.VoterRecord{{
			EpicNo: "AAA1111111", Name: "Voter", Gender: entity.GenderMale,
		}},
	}
	store := &fakeStore{}
	orch := newTestOrchestrator(store, &fakePages{pages: pages}, ex, nil)

	res := orch.Run(context.Background(), []string{path}, Options{APIKey: "k"})

	assert.Equal(t, 10, ex.calls, "page cap should stop at 10")
	assert.Equal(t, 9, res.TotalExtracted)
	assert.Equal(t, 9, res.TotalPersisted)
	assert.Equal(t, 9, len(store.batches), "each page pushed individually")
	assert.Equal(t, 0, res.FailedFiles, "a failed page does not fail the file")

	var sawQuota bool
	for _, ev := range res.Events {
		if strings.Contains(ev.Message, "quota") {
			sawQuota = true
		}
	}
	assert.True(t, sawQuota)
}

func TestRunStoreFailureKeepsCounting(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Sheet": {
			{"EPIC", "Name"},
			{"XYZ1234567", "Asha Patil"},
		},
	})

	store := &fakeStore{failUpsert: true}
	orch := newTestOrchestrator(store, &fakePages{}, &fakeExtractor{}, nil)

	res := orch.Run(context.Background(), []string{path}, Options{})

	assert.Equal(t, 1, res.TotalExtracted)
	assert.Equal(t, 0, res.TotalPersisted)

	var sawFailure bool
	for _, ev := range res.Events {
		if strings.Contains(ev.Message, "store write failed") {
			sawFailure = true
		}
	}
	assert.True(t, sawFailure)
}

func TestRunUnsupportedFileIsIsolated(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(bad, []byte("hello"), 0o644))
	good := writeWorkbook(t, map[string][][]any{
		"Sheet": {
			{"EPIC", "Name"},
			{"XYZ1234567", "Asha Patil"},
		},
	})

	store := &fakeStore{}
	orch := newTestOrchestrator(store, &fakePages{}, &fakeExtractor{}, nil)

	res := orch.Run(context.Background(), []string{bad, good}, Options{})

	assert.Equal(t, 1, res.FailedFiles)
	assert.Equal(t, 1, res.TotalPersisted)
}

func TestRunSerialOffsetSpansSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"A": {
			{"EPIC", "Name"},
			{"AAA1111111", "One"},
			{"BBB2222222", "Two"},
		},
		"B": {
			{"EPIC", "Name"},
			{"CCC3333333", "Three"},
		},
	})

	store := &fakeStore{}
	orch := newTestOrchestrator(store, &fakePages{}, &fakeExtractor{}, nil)

	res := orch.Run(context.Background(), []string{path}, Options{})
	require.Equal(t, 3, res.TotalPersisted)

	all, _ := store.ListVoters(context.Background())
	serials := map[string]string{}
	for _, r := range all {
		serials[r.Name] = r.SerialNo
	}
	assert.Len(t, serials, 3)
	seen := map[string]bool{}
	for _, s := range serials {
		seen[s] = true
	}
	assert.Equal(t, map[string]bool{"1": true, "2": true, "3": true}, seen)
}

func TestRunLegacyOCRImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o644))

	rec := &fakeRecognizer{text: "XYZ1234567\nRavi Kumar\nSuresh Kumar"}
	store := &fakeStore{}
	orch := newTestOrchestrator(store, &fakePages{}, &fakeExtractor{}, rec)

	res := orch.Run(context.Background(), []string{path}, Options{LegacyOCR: true})

	assert.Equal(t, 1, res.TotalExtracted)
	assert.Equal(t, 1, res.TotalPersisted)
	require.Equal(t, 1, store.total())
	assert.Equal(t, "Ravi Kumar", store.batches[0][0].Name)
}

func TestEventLogBounded(t *testing.T) {
	log := NewEventLog(3)
	for i := 0; i < 10; i++ {
		log.Appendf("event %d", i)
	}
	events := log.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "event 7", events[0].Message)
	assert.Equal(t, "event 9", events[2].Message)
}
