package entity

import (
	"strings"
	"time"

	"github.com/rollwright/voterroll/constants"
)

// Gender is the canonical gender symbol stored on a voter record.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// PollingStation is always present on a record, even when both fields are
// empty strings.
type PollingStation struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// VoterRecord is the canonical entity produced by every extraction path.
// JSON tags match the shape shared by backup files and AI responses.
type VoterRecord struct {
	EpicNo                    string         `json:"epicNo"`
	Name                      string         `json:"name"`
	Age                       int            `json:"age"`
	Gender                    Gender         `json:"gender"`
	ParentSpouseName          string         `json:"parentSpouseName"`
	AssemblyConstituency      string         `json:"assemblyConstituency"`
	ParliamentaryConstituency string         `json:"parliamentaryConstituency"`
	District                  string         `json:"district"`
	State                     string         `json:"state"`
	PartNo                    string         `json:"partNo"`
	PartName                  string         `json:"partName"`
	SerialNo                  string         `json:"serialNo"`
	PollingStation            PollingStation `json:"pollingStation"`
	LastUpdated               time.Time      `json:"lastUpdated"`
}

// IsPersistable reports whether the record survived extraction with a real
// identity. Placeholder keys and sentinel names are preview-only.
func (v VoterRecord) IsPersistable() bool {
	if strings.HasPrefix(v.EpicNo, constants.PendingEpicPrefix) {
		return false
	}
	return v.Name != constants.UnknownName
}
