package events

import "protocol-system/internal/entities"

const (
	DocumentRejected  = "document.rejected"
	DocumentRequested = "document.requested"
)

// DocumentRejectedEvent is published after a rejection commits. Initiator
// is the user who dispatched the movement that was turned down.
type DocumentRejectedEvent struct {
	Document    entities.Document
	Movement    entities.DocumentMovement
	RejectedBy  entities.Identity
	Description string
}

func (e DocumentRejectedEvent) Name() string { return DocumentRejected }

// DocumentRequestedEvent is published after a request commits.
// HoldingSector is the sector that currently has custody of the document.
type DocumentRequestedEvent struct {
	Document      entities.Document
	Request       entities.DocumentRequest
	RequestedBy   entities.Identity
	HoldingSector string
}

func (e DocumentRequestedEvent) Name() string { return DocumentRequested }
