package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatHistoryEntry is one turn in a session's append-only conversation log.
// SequenceNumber is server-assigned at append time, strictly increasing and
// gapless per session; replay and summarization key off it, never wall-clock.
type ChatHistoryEntry struct {
	Id             uuid.UUID
	SessionId      uuid.UUID
	Role           string
	Content        string
	SenderName     string
	SequenceNumber int64
	CreatedAt      time.Time
}
