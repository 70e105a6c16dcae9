package implementation

import (
	"context"
	"errors"

	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/mapper"
	"ai-triage-be/internal/model"
	"ai-triage-be/internal/repository/contract"
	"ai-triage-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EncounterRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TriageMapper
}

func NewEncounterRepository(db *gorm.DB) contract.EncounterRepository {
	return &EncounterRepositoryImpl{
		db:     db,
		mapper: mapper.NewTriageMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EncounterRepositoryImpl) Create(ctx context.Context, encounter *entity.Encounter) error {
	m := r.mapper.EncounterToModel(encounter)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*encounter = *r.mapper.EncounterToEntity(m)
	return nil
}

func (r *EncounterRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Encounter, error) {
	var m model.Encounter
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EncounterToEntity(&m), nil
}

func (r *EncounterRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Encounter, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *EncounterRepositoryImpl) FindByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.Encounter, error) {
	return r.findOne(ctx, specification.ByID{ID: id}, specification.ForUpdate{})
}

func (r *EncounterRepositoryImpl) UpdateState(ctx context.Context, id uuid.UUID, state string) error {
	res := r.db.WithContext(ctx).Model(&model.Encounter{}).Where("id = ?", id).Update("state", state)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
