package authz

// Role and Level are the closed sets a user account carries.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type Level string

const (
	LevelRead  Level = "READ"
	LevelWrite Level = "WRITE"
)

// Capability is what a route requires. Handlers never look at roles.
type Capability string

const (
	UserRead   Capability = "user:read"
	UserWrite  Capability = "user:write"
	AdminRead  Capability = "admin:read"
	AdminWrite Capability = "admin:write"
)
