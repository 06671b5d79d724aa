package entities

import "time"

// DocumentMovement is the single active transfer of a document: dispatched
// from FromSector and waiting for ToSector to accept or reject it.
// The row is deleted when the transfer concludes.
type DocumentMovement struct {
	DocumentID uint64    `json:"document_id" db:"document_id"`
	UserID     uint64    `json:"user_id" db:"user_id"`
	FromSector string    `json:"from_sector" db:"from_sector"`
	ToSector   string    `json:"to_sector" db:"to_sector"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
