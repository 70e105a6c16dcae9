package entity

import (
	"time"

	"github.com/google/uuid"
)

type Encounter struct {
	Id                 uuid.UUID
	PatientId          uuid.UUID
	OperatorId         uuid.UUID
	ChiefComplaint     string
	PatientDateOfBirth *time.Time
	PatientGender      string
	State              string
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

// PatientAge returns the age in whole years at the given instant, or nil when
// the date of birth is unknown.
func (e *Encounter) PatientAge(now time.Time) *int {
	if e.PatientDateOfBirth == nil {
		return nil
	}
	dob := *e.PatientDateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return &age
}
