package domain

import (
	"time"
)

// Curator is the human author/owner of restaurant entries.
type Curator struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"not null;index;column:name" json:"name"`
	LastActive time.Time `gorm:"column:last_active" json:"last_active"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Curator) TableName() string {
	return "curator"
}
