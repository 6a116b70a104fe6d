package domain

// RestaurantConcept links a restaurant to a concept. The pair is the real
// identity; the surrogate id exists for storage compatibility only.
type RestaurantConcept struct {
	ID           int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID int64 `gorm:"not null;uniqueIndex:uq_restaurant_concept;column:restaurant_id" json:"restaurant_id"`
	ConceptID    int64 `gorm:"not null;uniqueIndex:uq_restaurant_concept;column:concept_id" json:"concept_id"`
}

func (RestaurantConcept) TableName() string {
	return "restaurant_concept"
}
