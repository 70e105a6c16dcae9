package mapper

import (
	"time"

	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/model"

	"gorm.io/datatypes"
)

type TriageMapper struct{}

func NewTriageMapper() *TriageMapper {
	return &TriageMapper{}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// Encounter Mappers

func (m *TriageMapper) EncounterToEntity(e *model.Encounter) *entity.Encounter {
	if e == nil {
		return nil
	}
	return &entity.Encounter{
		Id:                 e.Id,
		PatientId:          e.PatientId,
		OperatorId:         e.OperatorId,
		ChiefComplaint:     e.ChiefComplaint,
		PatientDateOfBirth: e.PatientDateOfBirth,
		PatientGender:      e.PatientGender,
		State:              e.State,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          optionalTime(e.UpdatedAt),
	}
}

func (m *TriageMapper) EncounterToModel(e *entity.Encounter) *model.Encounter {
	if e == nil {
		return nil
	}
	return &model.Encounter{
		Id:                 e.Id,
		PatientId:          e.PatientId,
		OperatorId:         e.OperatorId,
		ChiefComplaint:     e.ChiefComplaint,
		PatientDateOfBirth: e.PatientDateOfBirth,
		PatientGender:      e.PatientGender,
		State:              e.State,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          derefTime(e.UpdatedAt),
	}
}

// Turn Mappers

func (m *TriageMapper) TurnToEntity(t *model.EncounterTurn) *entity.Turn {
	if t == nil {
		return nil
	}
	return &entity.Turn{
		Id:              t.Id,
		EncounterId:     t.EncounterId,
		Sequence:        t.Sequence,
		Origin:          t.Origin,
		Content:         t.Content,
		RedactedContent: t.RedactedContent,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *TriageMapper) TurnToModel(t *entity.Turn) *model.EncounterTurn {
	if t == nil {
		return nil
	}
	return &model.EncounterTurn{
		Id:              t.Id,
		EncounterId:     t.EncounterId,
		Sequence:        t.Sequence,
		Origin:          t.Origin,
		Content:         t.Content,
		RedactedContent: t.RedactedContent,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *TriageMapper) TurnsToEntities(turns []*model.EncounterTurn) []*entity.Turn {
	entities := make([]*entity.Turn, len(turns))
	for i, t := range turns {
		entities[i] = m.TurnToEntity(t)
	}
	return entities
}

// Summary Mappers

func (m *TriageMapper) SummaryToEntity(s *model.ClinicalSummary) *entity.Summary {
	if s == nil {
		return nil
	}
	return &entity.Summary{
		Id:          s.Id,
		EncounterId: s.EncounterId,
		Subjective:  s.Subjective,
		Objective:   s.Objective,
		Assessment:  s.Assessment,
		Plan:        s.Plan,
		RiskScore:   s.RiskScore,
		Version:     s.Version,
		IsFinalized: s.IsFinalized,
		FinalizedBy: s.FinalizedBy,
		FinalizedAt: s.FinalizedAt,
		Extraction:  map[string]interface{}(s.Extraction),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   optionalTime(s.UpdatedAt),
	}
}

func (m *TriageMapper) SummaryToModel(s *entity.Summary) *model.ClinicalSummary {
	if s == nil {
		return nil
	}
	return &model.ClinicalSummary{
		Id:          s.Id,
		EncounterId: s.EncounterId,
		Subjective:  s.Subjective,
		Objective:   s.Objective,
		Assessment:  s.Assessment,
		Plan:        s.Plan,
		RiskScore:   s.RiskScore,
		Version:     s.Version,
		IsFinalized: s.IsFinalized,
		FinalizedBy: s.FinalizedBy,
		FinalizedAt: s.FinalizedAt,
		Extraction:  datatypes.JSONMap(s.Extraction),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   derefTime(s.UpdatedAt),
	}
}
