package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SyncRunStatusRunning   = "running"
	SyncRunStatusCompleted = "completed"
	SyncRunStatusDegraded  = "degraded"
)

// SyncRun records one invocation of the sync pipeline and its outcome.
type SyncRun struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Status     string     `gorm:"not null;column:status" json:"status"`
	StartedAt  time.Time  `gorm:"not null;column:started_at" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`

	Uploaded     int `gorm:"not null;default:0;column:uploaded" json:"uploaded"`
	UploadFailed int `gorm:"not null;default:0;column:upload_failed" json:"upload_failed"`
	Imported     int `gorm:"not null;default:0;column:imported" json:"imported"`
	Demoted      int `gorm:"not null;default:0;column:demoted" json:"demoted"`
	Merged       int `gorm:"not null;default:0;column:merged" json:"merged"`
	Conflicts    int `gorm:"not null;default:0;column:conflicts" json:"conflicts"`

	// StageErrors is a JSON array of per-stage error strings; stages are
	// best-effort, so errors here do not imply the whole run failed.
	StageErrors datatypes.JSON `gorm:"column:stage_errors" json:"stage_errors,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SyncRun) TableName() string {
	return "sync_run"
}
