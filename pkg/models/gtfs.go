package models

import "time"

// Imported GTFS rows are always scoped by the composite "mode:agencyID"
// key. Provider route/stop/trip identifiers are only unique within one
// agency's feed, never globally.

type Agency struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Mode       string    `gorm:"size:20;not null;uniqueIndex:uq_mode_agency" json:"mode"`
	AgencyID   string    `gorm:"size:40;not null;uniqueIndex:uq_mode_agency" json:"agency_id"`
	ImportedAt time.Time `gorm:"not null" json:"imported_at"`
}

// Key returns the composite agency key, eg. "buses:GSBC001".
func (a *Agency) Key() string {
	return a.Mode + ":" + a.AgencyID
}

type Route struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	AgencyKey      string `gorm:"size:80;index" json:"-"`
	RouteID        string `gorm:"size:64;index" json:"route_id"`
	RouteShortName string `gorm:"size:64" json:"route_short_name"`
	RouteLongName  string `gorm:"size:255" json:"route_long_name"`
	RouteType      int    `json:"route_type"`
}

type Stop struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	AgencyKey string  `gorm:"size:80;index" json:"-"`
	StopID    string  `gorm:"size:64;index" json:"stop_id"`
	StopName  string  `gorm:"size:255" json:"stop_name"`
	StopLat   float64 `json:"stop_lat"`
	StopLon   float64 `json:"stop_lon"`
}

type Trip struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	AgencyKey    string `gorm:"size:80;index" json:"-"`
	TripID       string `gorm:"size:64;index" json:"trip_id"`
	RouteID      string `gorm:"size:64;index" json:"route_id"`
	ServiceID    string `gorm:"size:64" json:"service_id"`
	TripHeadsign string `gorm:"size:255" json:"trip_headsign"`
	DirectionID  int    `json:"direction_id"`
}

type StopTime struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	AgencyKey     string `gorm:"size:80;index" json:"-"`
	TripID        string `gorm:"size:64;index" json:"trip_id"`
	// GTFS times can exceed 24:00:00 for next-day service so they stay
	// as strings
	ArrivalTime   string `gorm:"size:16" json:"arrival_time"`
	DepartureTime string `gorm:"size:16" json:"departure_time"`
	StopID        string `gorm:"size:64;index" json:"stop_id"`
	StopSequence  int    `json:"stop_sequence"`
}
