package repository

import (
	"context"

	"github.com/rollwright/voterroll/internal/entity"
)

// VoterStore is the remote-store boundary. Each call is an independent
// transactional unit; UpsertVoters is idempotent by epic_no with
// last-write-wins on non-key fields.
type VoterStore interface {
	UpsertVoters(ctx context.Context, records []entity.VoterRecord) error
	DeleteVoter(ctx context.Context, epicNo string) error
	DeleteAll(ctx context.Context) error
	ListVoters(ctx context.Context) ([]entity.VoterRecord, error)
	SearchVoters(ctx context.Context, query string) ([]entity.VoterRecord, error)
}
