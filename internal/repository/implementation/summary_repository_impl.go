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

type SummaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TriageMapper
}

func NewSummaryRepository(db *gorm.DB) contract.SummaryRepository {
	return &SummaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewTriageMapper(),
	}
}

func (r *SummaryRepositoryImpl) Create(ctx context.Context, summary *entity.Summary) error {
	m := r.mapper.SummaryToModel(summary)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("summary already exists for encounter %s", summary.EncounterId)
		}
		return err
	}
	*summary = *r.mapper.SummaryToEntity(m)
	return nil
}

func (r *SummaryRepositoryImpl) FindByEncounterId(ctx context.Context, encounterId uuid.UUID) (*entity.Summary, error) {
	var m model.ClinicalSummary
	query := applySpecifications(r.db.WithContext(ctx), specification.ByEncounterID{EncounterID: encounterId})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SummaryToEntity(&m), nil
}

func (r *SummaryRepositoryImpl) Update(ctx context.Context, summary *entity.Summary) error {
	m := r.mapper.SummaryToModel(summary)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*summary = *r.mapper.SummaryToEntity(m)
	return nil
}
