package models

import "time"

// FavouriteLimit is the most favourites any one user may hold.
const FavouriteLimit = 2

type Favourite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:uq_user_agency_route" json:"user_id"`
	AgencyKey string    `gorm:"size:80;not null;uniqueIndex:uq_user_agency_route" json:"-"`
	RouteID   string    `gorm:"size:64;not null;uniqueIndex:uq_user_agency_route" json:"route_id"`
	Alias     string    `gorm:"size:255" json:"alias"`
	CreatedAt time.Time `json:"created_at"`
}
