package entity

import (
	"time"

	"github.com/google/uuid"
)

type Summary struct {
	Id          uuid.UUID
	EncounterId uuid.UUID
	Subjective  string
	Objective   string
	Assessment  string
	Plan        string
	RiskScore   string
	Version     int
	IsFinalized bool
	FinalizedBy *uuid.UUID
	FinalizedAt *time.Time
	Extraction  map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
