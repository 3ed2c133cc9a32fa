package llm

import (
	"context"

	"github.com/rollwright/voterroll/internal/entity"
)

// ExtractRequest carries one source unit to the generative extraction call.
// Exactly one of Text or ImageB64 is set. APIKey travels with every request
// so a credential change is picked up on the next call; no client-side
// credential state.
type ExtractRequest struct {
	Text     string
	ImageB64 string
	MIMEType string

	APIKey string
}

// Meta is the document-wide metadata an extraction may carry alongside
// per-voter entries. It is passed through to callers unmodified.
type Meta map[string]any

// VoterExtractor is the interface the pipeline depends on.
type VoterExtractor interface {
	ExtractVoters(ctx context.Context, req ExtractRequest) ([]entity.VoterRecord, Meta, error)
}
