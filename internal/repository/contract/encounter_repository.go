package contract

import (
	"context"

	"ai-triage-be/internal/entity"

	"github.com/google/uuid"
)

type EncounterRepository interface {
	Create(ctx context.Context, encounter *entity.Encounter) error
	// FindById returns nil, nil when the encounter does not exist.
	FindById(ctx context.Context, id uuid.UUID) (*entity.Encounter, error)
	// FindByIdForUpdate is FindById with a row lock held until the
	// surrounding transaction ends.
	FindByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.Encounter, error)
	UpdateState(ctx context.Context, id uuid.UUID, state string) error
}
