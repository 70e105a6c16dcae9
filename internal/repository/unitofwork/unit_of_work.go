package unitofwork

import (
	"context"

	"ai-triage-be/internal/repository/contract"
)

// UnitOfWork groups repository writes into one atomic commit. Without Begin,
// repositories operate directly on the store.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	EncounterRepository() contract.EncounterRepository
	TurnRepository() contract.TurnRepository
	SummaryRepository() contract.SummaryRepository
}
