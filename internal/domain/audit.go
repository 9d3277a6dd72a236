package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JudgmentRecord is one persisted evaluation outcome. The full judgment is
// kept as the serialized payload; the indexed columns exist for listing and
// counting without unpacking it.
type JudgmentRecord struct {
	ID              uuid.UUID        `json:"id"`
	Status          EvaluationStatus `json:"status"`
	Licensed        bool             `json:"licensed"`
	CanRetry        bool             `json:"can_retry"`
	NumStatements   int              `json:"num_statements"`
	NumAcceptable   int              `json:"num_acceptable"`
	GroundsAccepted int              `json:"grounds_accepted"`
	GroundsCited    int              `json:"grounds_cited"`
	Explanation     string           `json:"explanation"`
	Payload         []byte           `json:"payload,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type JudgmentStore interface {
	Create(ctx context.Context, rec *JudgmentRecord) error
	ListRecent(ctx context.Context, limit int) ([]JudgmentRecord, error)
}
