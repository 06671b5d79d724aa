package entities

// Identity is the acting principal of a workflow operation. It is resolved
// at the transport boundary and passed explicitly into every engine call.
type Identity struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Sector   string `json:"sector"`
}
