package maprender

import (
	"strings"

	"github.com/buslane/buslane/pkg/models"
	"gorm.io/gorm"
)

type Point struct {
	Lon      float64
	Lat      float64
	StopID   string
	StopName string
	Sequence int
}

// RouteSeries is one route's plottable shape: the ordered stops of its
// representative trip.
type RouteSeries struct {
	Agency    string
	AgencyKey string
	RouteID   string
	Label     string
	Points    []Point
}

// RoutePair names one (agencyKey, routeID) target to plot.
type RoutePair struct {
	AgencyKey string
	RouteID   string
}

// Resolve picks a representative trip per pair and gathers its ordered
// stop coordinates. Pairs pointing at unimported agencies or routes
// without trips are skipped; stop times whose stop row is missing are
// dropped rather than zero-filled.
func Resolve(db *gorm.DB, pairs []RoutePair) []RouteSeries {
	var series []RouteSeries

	for _, pair := range pairs {
		var imported int64
		db.Model(&models.Route{}).Where("agency_key = ?", pair.AgencyKey).Count(&imported)
		if imported == 0 {
			continue
		}

		// Representative trip: smallest trip id, an arbitrary but
		// deterministic tie-break
		var trip models.Trip
		err := db.
			Where("agency_key = ? AND route_id = ?", pair.AgencyKey, pair.RouteID).
			Order("trip_id asc").
			First(&trip).Error
		if err != nil {
			continue
		}

		points := coordsForTrip(db, pair.AgencyKey, trip.TripID)
		if len(points) == 0 {
			continue
		}

		label := pair.RouteID
		var route models.Route
		err = db.Where("agency_key = ? AND route_id = ?", pair.AgencyKey, pair.RouteID).First(&route).Error
		if err == nil && route.RouteShortName != "" {
			label = route.RouteShortName
		}

		agency := pair.AgencyKey
		if _, bare, found := strings.Cut(pair.AgencyKey, ":"); found {
			agency = bare
		}

		series = append(series, RouteSeries{
			Agency:    agency,
			AgencyKey: pair.AgencyKey,
			RouteID:   pair.RouteID,
			Label:     label,
			Points:    points,
		})
	}

	return series
}

func coordsForTrip(db *gorm.DB, agencyKey string, tripID string) []Point {
	var stopTimes []models.StopTime
	db.
		Where("agency_key = ? AND trip_id = ?", agencyKey, tripID).
		Order("stop_sequence asc").
		Find(&stopTimes)

	if len(stopTimes) == 0 {
		return nil
	}

	stopIDs := make([]string, 0, len(stopTimes))
	for _, stopTime := range stopTimes {
		stopIDs = append(stopIDs, stopTime.StopID)
	}

	var stops []models.Stop
	db.Where("agency_key = ? AND stop_id IN ?", agencyKey, stopIDs).Find(&stops)

	stopsByID := make(map[string]models.Stop, len(stops))
	for _, stop := range stops {
		stopsByID[stop.StopID] = stop
	}

	var points []Point
	for _, stopTime := range stopTimes {
		stop, found := stopsByID[stopTime.StopID]
		if !found {
			continue
		}

		points = append(points, Point{
			Lon:      stop.StopLon,
			Lat:      stop.StopLat,
			StopID:   stop.StopID,
			StopName: stop.StopName,
			Sequence: stopTime.StopSequence,
		})
	}

	return points
}
