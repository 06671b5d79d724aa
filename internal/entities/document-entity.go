package entities

import (
	"time"

	"protocol-system/pkg/types"
)

type DocumentType string

const (
	DocumentTypeProtocol DocumentType = "PROTOCOL"
	DocumentTypeRecord   DocumentType = "RECORD"
	DocumentTypeInvoice  DocumentType = "INVOICE"
	DocumentTypeContract DocumentType = "CONTRACT"
	DocumentTypeMemo     DocumentType = "MEMO"
	DocumentTypeReport   DocumentType = "REPORT"
	DocumentTypeOther    DocumentType = "OTHER"
)

var documentTypes = map[DocumentType]struct{}{
	DocumentTypeProtocol: {},
	DocumentTypeRecord:   {},
	DocumentTypeInvoice:  {},
	DocumentTypeContract: {},
	DocumentTypeMemo:     {},
	DocumentTypeReport:   {},
	DocumentTypeOther:    {},
}

func (t DocumentType) IsValid() bool {
	_, ok := documentTypes[t]
	return ok
}

// Document is a physical or administrative protocol tracked by the system.
// Sector is the custodial sector and only changes when a transfer is accepted.
type Document struct {
	ID                uint64       `json:"id" db:"id"`
	Number            string       `json:"number" db:"number"`
	Name              string       `json:"name" db:"name"`
	Observations      *string      `json:"observations,omitempty" db:"observations"`
	Type              DocumentType `json:"type" db:"type"`
	Sector            string       `json:"sector" db:"sector"`
	CreatedBy         uint64       `json:"created_by" db:"created_by"`
	CreatedByUsername string       `json:"created_by_username" db:"created_by_username"`
	CreatedAt         time.Time    `json:"created_at" db:"created_at"`
	ModifiedAt        *time.Time   `json:"modified_at,omitempty" db:"modified_at"`

	types.SoftDelete
}
