package normalize

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rollwright/voterroll/constants"
	"github.com/rollwright/voterroll/internal/entity"
	"github.com/rollwright/voterroll/internal/resolve"
)

// RowNormalizer maps raw spreadsheet rows to canonical voter records using
// per-field header alias lists. It never drops a row: unresolvable fields
// get deterministic fallbacks and filtering happens at the persistence
// boundary, not here.
type RowNormalizer struct {
	aliases resolve.Aliases
	logger  *slog.Logger
}

func NewRowNormalizer(aliases resolve.Aliases, logger *slog.Logger) *RowNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &RowNormalizer{aliases: aliases, logger: logger}
}

// Normalize converts rows to records, order-preserving, one record per row.
// offset is the number of rows already consumed in this ingestion run and
// feeds the synthesized serial and placeholder keys.
func (n *RowNormalizer) Normalize(rows []map[string]any, offset int) []entity.VoterRecord {
	out := make([]entity.VoterRecord, 0, len(rows))
	for i, row := range rows {
		out = append(out, n.normalizeRow(row, offset+i))
	}
	return out
}

func (n *RowNormalizer) normalizeRow(row map[string]any, position int) entity.VoterRecord {
	epic := resolve.Resolve(row, n.aliases.EpicNo)
	if epic == "" {
		epic = fmt.Sprintf("%s%d-%d", constants.PendingEpicPrefix, position, time.Now().UnixMilli())
	}

	name := resolve.Resolve(row, n.aliases.Name)
	if name == "" {
		name = constants.UnknownName
	}

	parent := resolve.Resolve(row, n.aliases.ParentSpouseName)
	if parent == "" {
		parent = constants.UnknownName
	}

	serial := resolve.Resolve(row, n.aliases.SerialNo)
	if serial == "" {
		serial = strconv.Itoa(position + 1)
	}

	// Sources rarely distinguish part number from part name.
	part := resolve.Resolve(row, n.aliases.Part)

	return entity.VoterRecord{
		EpicNo:           epic,
		Name:             name,
		Age:              parseAge(resolve.Resolve(row, n.aliases.Age)),
		Gender:           rowGender(resolve.Resolve(row, n.aliases.Gender)),
		ParentSpouseName: parent,
		PartNo:           part,
		PartName:         part,
		SerialNo:         serial,
		PollingStation: entity.PollingStation{
			Name:    resolve.Resolve(row, n.aliases.StationName),
			Address: resolve.Resolve(row, n.aliases.StationAddress),
		},
		LastUpdated: time.Now(),
	}
}

// parseAge treats unparseable and zero values alike as absent.
func parseAge(s string) int {
	age, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || age == 0 {
		return constants.DefaultRowAge
	}
	return age
}

// rowGender maps the resolved cell to F on a recognized feminine token and
// M otherwise. O is never produced from spreadsheet rows.
func rowGender(s string) entity.Gender {
	g := strings.ToLower(strings.TrimSpace(s))
	if strings.Contains(g, "स्त्री") || strings.Contains(g, "महिला") ||
		strings.Contains(g, "female") || g == "f" {
		return entity.GenderFemale
	}
	return entity.GenderMale
}
