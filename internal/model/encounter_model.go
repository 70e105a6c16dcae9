package model

import (
	"time"

	"github.com/google/uuid"
)

type Encounter struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientId          uuid.UUID  `gorm:"type:uuid;not null;index"`
	OperatorId         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ChiefComplaint     string     `gorm:"type:text"`
	PatientDateOfBirth *time.Time `gorm:"type:date"`
	PatientGender      string     `gorm:"type:varchar(32)"`
	State              string     `gorm:"type:varchar(32);not null;index"`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

func (Encounter) TableName() string {
	return "encounters"
}
