package domain

// RestaurantLocation holds the single optional location of a restaurant.
type RestaurantLocation struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID int64   `gorm:"not null;uniqueIndex;column:restaurant_id" json:"restaurant_id"`
	Latitude     float64 `gorm:"not null;column:latitude" json:"latitude"`
	Longitude    float64 `gorm:"not null;column:longitude" json:"longitude"`
	Address      string  `gorm:"column:address" json:"address,omitempty"`
}

func (RestaurantLocation) TableName() string {
	return "restaurant_location"
}
