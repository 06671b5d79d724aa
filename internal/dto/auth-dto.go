package dto

type LoginDTO struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponseDTO struct {
	AccessToken string        `json:"accessToken"`
	User        UserPublicDTO `json:"user"`
}

type UserPublicDTO struct {
	ID           uint64   `json:"id"`
	Username     string   `json:"username"`
	Sector       string   `json:"sector"`
	Role         string   `json:"role"`
	Level        string   `json:"level"`
	Capabilities []string `json:"capabilities"`
}

// UserClaims is what the access token carries about its subject.
type UserClaims struct {
	UserID   uint64
	Username string
	Sector   string
	Role     string
	Level    string
}
