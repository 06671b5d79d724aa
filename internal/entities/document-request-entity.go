package entities

import (
	"time"

	"protocol-system/pkg/types"
)

// DocumentRequest is a solicitation by RequestingSector to receive a
// document that is currently held somewhere else.
type DocumentRequest struct {
	ID               uint64     `json:"id" db:"id"`
	DocumentID       uint64     `json:"document_id" db:"document_id"`
	RequestingSector string     `json:"requesting_sector" db:"requesting_sector"`
	UserID           uint64     `json:"user_id" db:"user_id"`
	Reason           string     `json:"reason" db:"reason"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	ModifiedAt       *time.Time `json:"modified_at,omitempty" db:"modified_at"`

	types.SoftDelete
}

// DocumentRequestWithDocument is the read-side join of a request with the
// requested document and the requester's display name.
type DocumentRequestWithDocument struct {
	Request             DocumentRequest
	Document            Document
	RequestedByUsername string
}
