package model

import (
	"time"

	"github.com/google/uuid"
)

type EncounterTurn struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EncounterId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_encounter_turns_sequence,priority:1"`
	Sequence        int       `gorm:"not null;uniqueIndex:idx_encounter_turns_sequence,priority:2"`
	Origin          string    `gorm:"type:varchar(16);not null"`
	Content         string    `gorm:"type:text;not null"`
	RedactedContent string    `gorm:"type:text;not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (EncounterTurn) TableName() string {
	return "encounter_turns"
}
