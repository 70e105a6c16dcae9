package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ClinicalSummary struct {
	Id          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EncounterId uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	Subjective  string            `gorm:"type:text"`
	Objective   string            `gorm:"type:text"`
	Assessment  string            `gorm:"type:text"`
	Plan        string            `gorm:"type:text"`
	RiskScore   string            `gorm:"type:varchar(8);not null"`
	Version     int               `gorm:"not null;default:1"`
	IsFinalized bool              `gorm:"not null;default:false"`
	FinalizedBy *uuid.UUID        `gorm:"type:uuid"`
	FinalizedAt *time.Time
	Extraction  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime"`
}

func (ClinicalSummary) TableName() string {
	return "clinical_summaries"
}
