package domain

import (
	"time"
)

// Concept is a tagged descriptive attribute of a restaurant: a free-text
// taxonomy label ("Cuisine", "Mood", "Price Range") plus a free-text value.
type Concept struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Category  string    `gorm:"not null;uniqueIndex:uq_concept_category_value;column:category" json:"category"`
	Value     string    `gorm:"not null;uniqueIndex:uq_concept_category_value;column:value" json:"value"`
	Timestamp time.Time `gorm:"column:timestamp" json:"timestamp"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Concept) TableName() string {
	return "concept"
}

// ConceptKey identifies a concept for merge and dedup purposes. Comparison
// is exact and case-sensitive on both parts. A dedicated struct is used
// instead of a "category:value" string so values containing the delimiter
// cannot collide.
type ConceptKey struct {
	Category string
	Value    string
}

func (c *Concept) Key() ConceptKey {
	return ConceptKey{Category: c.Category, Value: c.Value}
}
