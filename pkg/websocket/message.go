package websocket

import "time"

// Envelope is the frame pushed to a client. Type tells the frontend how to
// read Payload.
type Envelope struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NotificationPayload is the body of a REJECTION or REQUEST notice.
type NotificationPayload struct {
	DocumentID     uint64    `json:"documentId"`
	DocumentNumber string    `json:"documentNumber"`
	DocumentName   string    `json:"documentName"`
	Actor          ActorInfo `json:"actor"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

type ActorInfo struct {
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
	Sector   string `json:"sector"`
}
