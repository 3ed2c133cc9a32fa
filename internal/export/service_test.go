package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rollwright/voterroll/internal/entity"
)

type memStore struct {
	records []entity.VoterRecord
	listErr error
}

func (m *memStore) UpsertVoters(_ context.Context, records []entity.VoterRecord) error {
	m.records = append(m.records, records...)
	return nil
}

func (m *memStore) DeleteVoter(context.Context, string) error { return nil }
func (m *memStore) DeleteAll(context.Context) error           { return nil }
func (m *memStore) ListVoters(context.Context) ([]entity.VoterRecord, error) {
	return m.records, m.listErr
}
func (m *memStore) SearchVoters(context.Context, string) ([]entity.VoterRecord, error) {
	return nil, nil
}

func testVoter(epic, name string) entity.VoterRecord {
	return entity.VoterRecord{
		EpicNo:   epic,
		Name:     name,
		Age:      34,
		Gender:   entity.GenderFemale,
		PartNo:   "12",
		PartName: "12",
		SerialNo: "1",
		PollingStation: entity.PollingStation{
			Name:    "Zilla Parishad School",
			Address: "Shivajinagar, Pune",
		},
		LastUpdated: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	src := &memStore{records: []entity.VoterRecord{
		testVoter("XYZ1234567", "Asha Patil"),
		testVoter("ABC7654321", "Ravi Kumar"),
	}}
	backup, err := NewService(src, nil).ExportJSON(context.Background())
	require.NoError(t, err)

	dst := &memStore{}
	n, err := NewService(dst, nil).RestoreJSON(context.Background(), backup)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, src.records, dst.records)
}

func TestExportJSONEmptyStoreIsArray(t *testing.T) {
	b, err := NewService(&memStore{}, nil).ExportJSON(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestExportJSONFieldNames(t *testing.T) {
	svc := NewService(&memStore{records: []entity.VoterRecord{
		testVoter("XYZ1234567", "Asha Patil"),
	}}, nil)
	b, err := svc.ExportJSON(context.Background())
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(b, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "XYZ1234567", docs[0]["epicNo"])
	assert.Contains(t, docs[0], "parentSpouseName")
	assert.Contains(t, docs[0], "pollingStation")
	assert.Contains(t, docs[0], "lastUpdated")
}

func TestRestoreJSONRejectsMalformedBackup(t *testing.T) {
	dst := &memStore{}
	_, err := NewService(dst, nil).RestoreJSON(context.Background(), []byte(`{"not":"an array"}`))
	require.Error(t, err)
	assert.Empty(t, dst.records)
}

func TestExportXLSXOpensAsWorkbook(t *testing.T) {
	svc := NewService(&memStore{records: []entity.VoterRecord{
		testVoter("XYZ1234567", "Asha Patil"),
	}}, nil)
	b, err := svc.ExportXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Voters")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Serial No", rows[0][0])
	assert.Equal(t, "EPIC No", rows[0][1])
	assert.Equal(t, "XYZ1234567", rows[1][1])
	assert.Equal(t, "Asha Patil", rows[1][2])
	assert.Equal(t, "34", rows[1][3])
	assert.Equal(t, "2026-03-01 10:00:00", rows[1][14])
}
