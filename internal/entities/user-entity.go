package entities

import (
	"time"

	"protocol-system/pkg/types"
)

type User struct {
	ID        uint64    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	Sector    string    `json:"sector" db:"sector"`
	Role      string    `json:"role" db:"role"`
	Level     string    `json:"level" db:"level"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	types.SoftDelete
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username, Sector: u.Sector}
}
