package entities

import (
	"time"

	"protocol-system/pkg/types"
)

type Sector struct {
	Name      string    `json:"name" db:"name"`
	Code      *string   `json:"code,omitempty" db:"code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	types.SoftDelete
}
