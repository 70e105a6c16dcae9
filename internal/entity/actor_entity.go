package entity

import "github.com/google/uuid"

// Actor is the authenticated caller of an engine operation.
type Actor struct {
	Id   uuid.UUID
	Role string
}
