package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ByEncounterID filters child rows by their encounter
type ByEncounterID struct {
	EncounterID uuid.UUID
}

func (s ByEncounterID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("encounter_id = ?", s.EncounterID)
}

// ForUpdate takes a row lock (SELECT ... FOR UPDATE)
type ForUpdate struct{}

func (s ForUpdate) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
