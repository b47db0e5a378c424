package gtfs

type Route struct {
	ID        string     `csv:"route_id"`
	AgencyID  string     `csv:"agency_id"`
	ShortName string     `csv:"route_short_name"`
	LongName  string     `csv:"route_long_name"`
	Type      LenientInt `csv:"route_type"`
}

type Stop struct {
	ID        string       `csv:"stop_id"`
	Name      string       `csv:"stop_name"`
	Latitude  LenientFloat `csv:"stop_lat"`
	Longitude LenientFloat `csv:"stop_lon"`
}

type Trip struct {
	RouteID     string     `csv:"route_id"`
	ServiceID   string     `csv:"service_id"`
	ID          string     `csv:"trip_id"`
	Headsign    string     `csv:"trip_headsign"`
	DirectionID LenientInt `csv:"direction_id"`
}

type StopTime struct {
	TripID        string     `csv:"trip_id"`
	ArrivalTime   string     `csv:"arrival_time"`
	DepartureTime string     `csv:"departure_time"`
	StopID        string     `csv:"stop_id"`
	StopSequence  LenientInt `csv:"stop_sequence"`
}
