package entities

import "time"

type HistoryAction string

const (
	HistoryActionCreated   HistoryAction = "CREATED"
	HistoryActionSent      HistoryAction = "SENT"
	HistoryActionReceived  HistoryAction = "RECEIVED"
	HistoryActionRejected  HistoryAction = "REJECTED"
	HistoryActionUpdated   HistoryAction = "UPDATED"
	HistoryActionRequested HistoryAction = "REQUESTED"
	HistoryActionDeleted   HistoryAction = "DELETED"
)

// DocumentHistory is one append-only audit record. Rows are never updated.
type DocumentHistory struct {
	ID          uint64        `json:"id" db:"id"`
	DocumentID  uint64        `json:"document_id" db:"document_id"`
	Action      HistoryAction `json:"action" db:"action"`
	Sector      string        `json:"sector" db:"sector"`
	Description string        `json:"description" db:"description"`
	UserID      uint64        `json:"user_id" db:"user_id"`
	Username    string        `json:"username" db:"username"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
