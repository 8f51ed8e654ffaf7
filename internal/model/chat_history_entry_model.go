package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatHistoryEntry struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_session_seq,unique,priority:1"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	SenderName     string    `gorm:"type:varchar(100);not null;default:''"`
	SequenceNumber int64     `gorm:"not null;index:idx_chat_session_seq,unique,priority:2"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (ChatHistoryEntry) TableName() string {
	return "chat_history_entries"
}
