package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ConflictLog is a manual-resolution queue entry: a local/remote restaurant
// pair whose core fields disagree, left for a human to settle.
type ConflictLog struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	SyncRunID          uuid.UUID      `gorm:"type:uuid;index;column:sync_run_id" json:"sync_run_id"`
	LocalRestaurantID  int64          `gorm:"not null;index;column:local_restaurant_id" json:"local_restaurant_id"`
	RemoteRestaurantID int64          `gorm:"not null;column:remote_restaurant_id" json:"remote_restaurant_id"`
	ConflictType       string         `gorm:"not null;column:conflict_type" json:"conflict_type"`
	Details            datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	Resolved           bool           `gorm:"not null;default:false;column:resolved" json:"resolved"`
	DetectedAt         time.Time      `gorm:"not null;column:detected_at" json:"detected_at"`
}

func (ConflictLog) TableName() string {
	return "conflict_log"
}
