package domain

import (
	"time"
)

// SyncState is a single-row table recording the last successful upload
// checkpoint. Row id is always 1.
type SyncState struct {
	ID         int64      `gorm:"primaryKey;column:id" json:"id"`
	LastSyncAt *time.Time `gorm:"column:last_sync_at" json:"last_sync_at,omitempty"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (SyncState) TableName() string {
	return "sync_state"
}
