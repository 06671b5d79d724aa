package contextkeys

type contextKey string

const (
	IdentityKey     contextKey = "Identity"
	CapabilitiesKey contextKey = "Capabilities"
	RequestIDKey    contextKey = "RequestID"
	TxKey           contextKey = "Tx"
)
