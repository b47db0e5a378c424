package api_test

import (
	"bytes"
	"image/png"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/buslane/buslane/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type shapeStop struct {
	id   string
	name string
	lat  float64
	lon  float64
}

func seedShape(t *testing.T, db *gorm.DB, agencyID string, routeID string, stops []shapeStop) {
	t.Helper()

	agencyKey := "buses:" + agencyID

	require.NoError(t, db.Create(&models.Route{
		AgencyKey: agencyKey, RouteID: routeID, RouteShortName: routeID,
		RouteLongName: "Route " + routeID, RouteType: 712,
	}).Error)
	require.NoError(t, db.Create(&models.Trip{
		AgencyKey: agencyKey, RouteID: routeID, ServiceID: "WD",
		TripID: routeID + "-T1", DirectionID: 0,
	}).Error)

	for i, stop := range stops {
		require.NoError(t, db.Create(&models.Stop{
			AgencyKey: agencyKey, StopID: stop.id, StopName: stop.name,
			StopLat: stop.lat, StopLon: stop.lon,
		}).Error)
		require.NoError(t, db.Create(&models.StopTime{
			AgencyKey: agencyKey, TripID: routeID + "-T1",
			StopID: stop.id, StopSequence: i + 1,
			ArrivalTime: "06:00:00", DepartureTime: "06:00:00",
		}).Error)
	}
}

func TestMapCSV(t *testing.T) {
	app, db := setupApp(t)
	token := loginAs(t, app, "commuter", "commuter")

	seedShape(t, db, "GSBC001", "4000", []shapeStop{
		{"S1", "Penrith Station", -33.7503, 150.6923},
		{"S2", "Blacktown Station", -33.7668, 150.9054},
	})
	seedShape(t, db, "GSBC002", "5000", []shapeStop{
		{"P1", "Campbelltown Station", -34.0639, 150.8134},
	})

	response := addFavourite(t, app, token, "GSBC001", "4000")
	require.Equal(t, http.StatusCreated, response.StatusCode)
	response = addFavourite(t, app, token, "GSBC002", "5000")
	require.Equal(t, http.StatusCreated, response.StatusCode)

	response = doRequest(t, app, http.MethodGet, "/viz/map?format=csv", token, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, response.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, response.Header.Get("Content-Disposition"), "favourites.csv")

	payload, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "agency,route_id,seq,stop_id,stop_name,lon,lat", lines[0])
	assert.Equal(t, "GSBC001,4000,1,S1,Penrith Station,150.692300,-33.750300", lines[1])
	assert.Equal(t, "GSBC001,4000,2,S2,Blacktown Station,150.905400,-33.766800", lines[2])
	assert.Equal(t, "GSBC002,5000,1,P1,Campbelltown Station,150.813400,-34.063900", lines[3])
}

func TestMapPNG(t *testing.T) {
	app, db := setupApp(t)
	token := loginAs(t, app, "commuter", "commuter")

	seedShape(t, db, "GSBC001", "4000", []shapeStop{
		{"S1", "Penrith Station", -33.7503, 150.6923},
		{"S2", "Blacktown Station", -33.7668, 150.9054},
	})

	response := addFavourite(t, app, token, "GSBC001", "4000")
	require.Equal(t, http.StatusCreated, response.StatusCode)

	t.Run("default dimensions", func(t *testing.T) {
		response := doRequest(t, app, http.MethodGet, "/viz/map", token, nil)
		require.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, "image/png", response.Header.Get("Content-Type"))

		payload, err := io.ReadAll(response.Body)
		require.NoError(t, err)

		image, err := png.Decode(bytes.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, 1000, image.Bounds().Dx())
		assert.Equal(t, 600, image.Bounds().Dy())
	})

	t.Run("explicit dimensions", func(t *testing.T) {
		response := doRequest(t, app, http.MethodGet, "/viz/map?width=400&height=300", token, nil)
		require.Equal(t, http.StatusOK, response.StatusCode)

		payload, err := io.ReadAll(response.Body)
		require.NoError(t, err)

		image, err := png.Decode(bytes.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, 400, image.Bounds().Dx())
		assert.Equal(t, 300, image.Bounds().Dy())
	})

	t.Run("explicit route overrides favourites", func(t *testing.T) {
		response := doRequest(t, app, http.MethodGet, "/viz/map?agency=GSBC001&route_id=4000", token, nil)
		assert.Equal(t, http.StatusOK, response.StatusCode)
	})
}

func TestMapErrors(t *testing.T) {
	app, _ := setupApp(t)
	token := loginAs(t, app, "commuter", "commuter")

	t.Run("no favourites", func(t *testing.T) {
		response := doRequest(t, app, http.MethodGet, "/viz/map", token, nil)
		assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	})

	t.Run("agency outside the allow list", func(t *testing.T) {
		response := doRequest(t, app, http.MethodGet, "/viz/map?agency=XYZC001&route_id=4000", token, nil)
		assert.Equal(t, http.StatusNotFound, response.StatusCode)
	})

	t.Run("favourited route with no imported shape", func(t *testing.T) {
		response := addFavourite(t, app, token, "GSBC004", "7000")
		require.Equal(t, http.StatusCreated, response.StatusCode)

		response = doRequest(t, app, http.MethodGet, "/viz/map", token, nil)
		assert.Equal(t, http.StatusNotFound, response.StatusCode)
	})
}
