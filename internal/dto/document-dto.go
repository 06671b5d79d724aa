package dto

import (
	"github.com/aarondl/null/v8"
)

// DateTimeLayout is the string form of every timestamp returned to callers.
const DateTimeLayout = "2006-01-02 15:04:05"

type CreateDocumentDTO struct {
	Number       string      `json:"number" validate:"required,not_blank,max=64"`
	Name         string      `json:"name" validate:"required,not_blank,max=255"`
	Observations null.String `json:"observations" validate:"omitempty,max=2000"`
	Type         string      `json:"type" validate:"required,document_type"`
}

type UpdateDocumentDTO struct {
	Number       string      `json:"number" validate:"required,not_blank,max=64"`
	Name         string      `json:"name" validate:"required,not_blank,max=255"`
	Observations null.String `json:"observations" validate:"omitempty,max=2000"`
	Type         string      `json:"type" validate:"required,document_type"`
}

type SendDocumentsDTO struct {
	DocumentIDs  []uint64 `json:"document_ids" validate:"required,min=1,dive,gt=0"`
	TargetSector string   `json:"target_sector" validate:"required,not_blank,max=120"`
}

type AcceptDocumentsDTO struct {
	DocumentIDs []uint64 `json:"document_ids" validate:"required,min=1,dive,gt=0"`
}

// ResolveMovementDTO carries the optional note of a reject or a cancel.
type ResolveMovementDTO struct {
	Description null.String `json:"description" validate:"omitempty,max=1000"`
}

type RequestDocumentDTO struct {
	Reason string `json:"reason" validate:"required,not_blank,max=1000"`
}

type HistoryItemDTO struct {
	Action      string `json:"action"`
	User        string `json:"user"`
	Sector      string `json:"sector"`
	DateTime    string `json:"date_time"`
	Description string `json:"description"`
}

type MovementDTO struct {
	FromSector string `json:"from_sector"`
	ToSector   string `json:"to_sector"`
	SentBy     uint64 `json:"sent_by"`
	SentAt     string `json:"sent_at"`
}

type DocumentDTO struct {
	ID           uint64           `json:"id"`
	Number       string           `json:"number"`
	Name         string           `json:"name"`
	Observations *string          `json:"observations,omitempty"`
	Type         string           `json:"type"`
	Sector       string           `json:"sector"`
	CreatedBy    string           `json:"created_by"`
	CreatedAt    string           `json:"created_at"`
	ModifiedAt   string           `json:"modified_at,omitempty"`
	Movement     *MovementDTO     `json:"movement,omitempty"`
	History      []HistoryItemDTO `json:"history"`
}

// Request tags shown on the dashboard.
const (
	RequestTagMine     = "you requested"
	RequestTagIncoming = "someone requested from you"
)

type DocumentRequestDTO struct {
	ID               uint64      `json:"id"`
	Tag              string      `json:"tag"`
	RequestingSector string      `json:"requesting_sector"`
	RequestedBy      string      `json:"requested_by"`
	Reason           string      `json:"reason"`
	CreatedAt        string      `json:"created_at"`
	Document         DocumentDTO `json:"document"`
}

type DashboardDTO struct {
	Inventory []DocumentDTO        `json:"inventory"`
	Inbox     []DocumentDTO        `json:"inbox"`
	Outbox    []DocumentDTO        `json:"outbox"`
	Requests  []DocumentRequestDTO `json:"requests"`
}

type BatchFailureDTO struct {
	DocumentID uint64 `json:"document_id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}

type BatchAcceptResultDTO struct {
	Accepted []DocumentDTO     `json:"accepted"`
	Failed   []BatchFailureDTO `json:"failed"`
}
