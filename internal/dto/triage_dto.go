package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateEncounterRequest struct {
	PatientId          uuid.UUID `json:"patient_id" validate:"required"`
	ChiefComplaint     string    `json:"chief_complaint" validate:"max=500"`
	PatientDateOfBirth string    `json:"patient_date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	PatientGender      string    `json:"patient_gender" validate:"max=32"`
}

type CreateEncounterResponse struct {
	Id    uuid.UUID `json:"id"`
	State string    `json:"state"`
}

type StartInterviewRequest struct {
	EncounterId uuid.UUID `json:"encounter_id" validate:"required"`
}

type StartInterviewResponse struct {
	EncounterId uuid.UUID `json:"encounter_id"`
	Message     string    `json:"message"`
	State       string    `json:"state"`
}

type ChatMessageRequest struct {
	EncounterId uuid.UUID `json:"encounter_id" validate:"required"`
	Message     string    `json:"message" validate:"required"`
	// Origin defaults to PATIENT. NURSE marks an operator observation.
	Origin string `json:"origin" validate:"omitempty,oneof=PATIENT NURSE"`
}

type ChatMessageResponse struct {
	EncounterId         uuid.UUID        `json:"encounter_id"`
	AIMessage           string           `json:"ai_message"`
	IsInterviewComplete bool             `json:"is_interview_complete"`
	State               string           `json:"state"`
	Summary             *SummaryResponse `json:"summary,omitempty"`
}

type TurnResponse struct {
	Id        uuid.UUID `json:"id"`
	Sequence  int       `json:"sequence"`
	Origin    string    `json:"origin"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type TranscriptResponse struct {
	EncounterId    uuid.UUID       `json:"encounter_id"`
	State          string          `json:"state"`
	ChiefComplaint string          `json:"chief_complaint"`
	Turns          []*TurnResponse `json:"turns"`
}

// ReviseSummaryRequest is a partial update: nil fields are left unchanged.
type ReviseSummaryRequest struct {
	Subjective  *string `json:"subjective"`
	Objective   *string `json:"objective"`
	Assessment  *string `json:"assessment"`
	Plan        *string `json:"plan"`
	RiskScore   *string `json:"risk_score" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	IsFinalized *bool   `json:"is_finalized"`
}

type SummaryResponse struct {
	Id          uuid.UUID  `json:"id"`
	EncounterId uuid.UUID  `json:"encounter_id"`
	Subjective  string     `json:"subjective"`
	Objective   string     `json:"objective"`
	Assessment  string     `json:"assessment"`
	Plan        string     `json:"plan"`
	RiskScore   string     `json:"risk_score"`
	Version     int        `json:"version"`
	IsFinalized bool       `json:"is_finalized"`
	FinalizedBy *uuid.UUID `json:"finalized_by,omitempty"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// EncounterArchiveRecord is the document written to object storage when a
// summary is finalized.
type EncounterArchiveRecord struct {
	Transcript *TranscriptResponse `json:"transcript"`
	Summary    *SummaryResponse    `json:"summary"`
	ArchivedAt time.Time           `json:"archived_at"`
}
