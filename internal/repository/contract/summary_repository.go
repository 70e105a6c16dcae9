package contract

import (
	"context"

	"ai-triage-be/internal/entity"

	"github.com/google/uuid"
)

type SummaryRepository interface {
	Create(ctx context.Context, summary *entity.Summary) error
	// FindByEncounterId returns nil, nil when no summary exists yet.
	FindByEncounterId(ctx context.Context, encounterId uuid.UUID) (*entity.Summary, error)
	Update(ctx context.Context, summary *entity.Summary) error
}
