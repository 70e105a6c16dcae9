package implementation

import (
	"context"
	"errors"

	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/mapper"
	"ai-triage-be/internal/model"
	"ai-triage-be/internal/pkg/apperror"
	"ai-triage-be/internal/repository/contract"
	"ai-triage-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TriageMapper
}

func NewTurnRepository(db *gorm.DB) contract.TurnRepository {
	return &TurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewTriageMapper(),
	}
}

func (r *TurnRepositoryImpl) Append(ctx context.Context, turn *entity.Turn) error {
	m := r.mapper.TurnToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("turn %d already exists for encounter %s", turn.Sequence, turn.EncounterId)
		}
		return err
	}
	*turn = *r.mapper.TurnToEntity(m)
	return nil
}

func (r *TurnRepositoryImpl) ListByEncounter(ctx context.Context, encounterId uuid.UUID) ([]*entity.Turn, error) {
	var models []*model.EncounterTurn
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByEncounterID{EncounterID: encounterId},
		specification.OrderBy{Field: "sequence"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TurnsToEntities(models), nil
}

func (r *TurnRepositoryImpl) LastSequence(ctx context.Context, encounterId uuid.UUID) (int, error) {
	var last int
	err := r.db.WithContext(ctx).
		Model(&model.EncounterTurn{}).
		Scopes(specification.ByEncounterID{EncounterID: encounterId}.Apply).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last, nil
}
