package contract

import (
	"context"

	"ai-triage-be/internal/entity"

	"github.com/google/uuid"
)

type TurnRepository interface {
	Append(ctx context.Context, turn *entity.Turn) error
	ListByEncounter(ctx context.Context, encounterId uuid.UUID) ([]*entity.Turn, error)
	// LastSequence returns 0 when the encounter has no turns.
	LastSequence(ctx context.Context, encounterId uuid.UUID) (int, error)
}
