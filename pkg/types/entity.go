package types

import "time"

type SoftDelete struct {
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (s SoftDelete) IsDeleted() bool {
	return s.DeletedAt != nil
}
