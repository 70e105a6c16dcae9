package entity

import (
	"time"

	"github.com/google/uuid"
)

// Turn is one message in an encounter's transcript.
// RedactedContent is the text that was sent to the reasoning provider.
type Turn struct {
	Id              uuid.UUID
	EncounterId     uuid.UUID
	Sequence        int
	Origin          string
	Content         string
	RedactedContent string
	CreatedAt       time.Time
}
