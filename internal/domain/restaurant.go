package domain

import (
	"time"
)

const (
	SourceLocal  = "local"
	SourceRemote = "remote"

	// OriginLocal marks a restaurant that has never been pushed to the
	// server (or was demoted after disappearing from it).
	OriginLocal  = "local"
	OriginSynced = "synced"
)

type Restaurant struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null;index;column:name" json:"name"`
	CuratorID     int64     `gorm:"index;column:curator_id" json:"curator_id"`
	Timestamp     time.Time `gorm:"column:timestamp" json:"timestamp"`
	Description   string    `gorm:"column:description" json:"description,omitempty"`
	Transcription string    `gorm:"column:transcription" json:"transcription,omitempty"`

	// ServerID is the remote identity once synced; nil means the server
	// has never acknowledged this restaurant.
	ServerID *string `gorm:"uniqueIndex;column:server_id" json:"server_id,omitempty"`
	Source   string  `gorm:"not null;default:local;column:source" json:"source"`
	Origin   string  `gorm:"not null;default:local;column:origin" json:"origin"`

	SharedRestaurantID *string `gorm:"column:shared_restaurant_id" json:"shared_restaurant_id,omitempty"`
	OriginalCuratorID  *string `gorm:"column:original_curator_id" json:"original_curator_id,omitempty"`

	// Archived hides a synced restaurant without deleting it; a hard
	// delete would resurrect the row on the next pull.
	Archived bool `gorm:"not null;default:false;column:archived" json:"archived"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Restaurant) TableName() string {
	return "restaurant"
}

// LocalOnly reports whether this restaurant has never been successfully
// pushed to the remote server.
func (r *Restaurant) LocalOnly() bool {
	return r.Origin == OriginLocal && r.ServerID == nil
}

// RemoteOrigin reports whether the authoritative copy lives on the server.
func (r *Restaurant) RemoteOrigin() bool {
	return r.Source == SourceRemote && r.ServerID != nil
}
