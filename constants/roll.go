package constants

// PendingEpicPrefix marks a synthesized placeholder key for a row whose real
// EPIC number could not be recovered. Records carrying it are kept for
// preview but never persisted.
const PendingEpicPrefix = "PENDING-"

// ExtEpicPrefix marks a key synthesized for an AI-extracted voter whose EPIC
// number was absent from the model response.
const ExtEpicPrefix = "EXT-"

// UnknownName is the sentinel used when no name could be resolved from the
// source. The validity filter treats it as extraction noise.
const UnknownName = "Unknown"

// DefaultRowAge is the fallback age for spreadsheet rows with a missing or
// unparseable age column.
const DefaultRowAge = 25

// MaxPDFPages caps how many pages of a document are sent to the extraction
// model, regardless of actual page count.
const MaxPDFPages = 10

// SearchResultCap bounds substring search results at the store.
const SearchResultCap = 50

// EventLogCap bounds the orchestrator's in-memory operator log.
const EventLogCap = 200
