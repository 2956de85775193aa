package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionContext identifies one chat session for logging and metrics.
type SessionContext struct {
	SessionID  string
	RemoteAddr string
	Transport  string
	StartedAt  time.Time
}

func NewSessionContext(remoteAddr, transport string) *SessionContext {
	return &SessionContext{
		SessionID:  uuid.NewString(),
		RemoteAddr: remoteAddr,
		Transport:  transport,
		StartedAt:  time.Now(),
	}
}
