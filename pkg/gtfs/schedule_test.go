package gtfs

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)

	for name, body := range files {
		entry, err := writer.Create(name)
		require.NoError(t, err)

		_, err = entry.Write([]byte(body))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return buffer.Bytes()
}

func TestParseArchive(t *testing.T) {
	payload := buildZip(t, map[string]string{
		"routes.txt": "route_id,route_short_name,route_long_name,route_type\n" +
			"4000,4000,Penrith to Mt Druitt,3\n" +
			"4001,4001,Mt Druitt to Penrith,3\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,Central Station,-33.7503,150.6923\n",
		"trips.txt": "route_id,service_id,trip_id,trip_headsign,direction_id\n" +
			"4000,WEEKDAY,T1,To Mt Druitt,0\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"T1,25:01:00,25:01:00,S1,1\n",
	})

	var schedule Schedule
	require.NoError(t, schedule.ParseArchive(payload))

	require.Len(t, schedule.Routes, 2)
	assert.Equal(t, "4000", schedule.Routes[0].ID)
	assert.Equal(t, "Penrith to Mt Druitt", schedule.Routes[0].LongName)
	assert.Equal(t, LenientInt(3), schedule.Routes[0].Type)

	require.Len(t, schedule.Stops, 1)
	assert.Equal(t, "Central Station", schedule.Stops[0].Name)
	assert.InDelta(t, -33.7503, float64(schedule.Stops[0].Latitude), 0.0001)

	require.Len(t, schedule.Trips, 1)
	assert.Equal(t, "T1", schedule.Trips[0].ID)

	require.Len(t, schedule.StopTimes, 1)
	// GTFS times past midnight stay verbatim
	assert.Equal(t, "25:01:00", schedule.StopTimes[0].ArrivalTime)
	assert.Equal(t, LenientInt(1), schedule.StopTimes[0].StopSequence)
}

func TestParseArchiveFolderPrefixAndCase(t *testing.T) {
	payload := buildZip(t, map[string]string{
		"google_transit/ROUTES.TXT": "route_id,route_short_name,route_long_name,route_type\n" +
			"10,10,Loop,3\n",
		"google_transit/Stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S9,Depot,-33.7,150.6\n",
	})

	var schedule Schedule
	require.NoError(t, schedule.ParseArchive(payload))

	require.Len(t, schedule.Routes, 1)
	assert.Equal(t, "10", schedule.Routes[0].ID)
	require.Len(t, schedule.Stops, 1)
}

func TestParseArchiveMissingFilesAreEmpty(t *testing.T) {
	payload := buildZip(t, map[string]string{
		"routes.txt": "route_id,route_short_name,route_long_name,route_type\n" +
			"10,10,Loop,3\n",
	})

	var schedule Schedule
	require.NoError(t, schedule.ParseArchive(payload))

	assert.Len(t, schedule.Routes, 1)
	assert.Empty(t, schedule.Stops)
	assert.Empty(t, schedule.Trips)
	assert.Empty(t, schedule.StopTimes)
}

func TestParseArchiveLenientNumerics(t *testing.T) {
	payload := buildZip(t, map[string]string{
		"routes.txt": "route_id,route_short_name,route_long_name,route_type\n" +
			"10,10,Loop,not-a-number\n" +
			"11,11,Loop B,\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,Depot,garbage,\n",
	})

	var schedule Schedule
	require.NoError(t, schedule.ParseArchive(payload))

	require.Len(t, schedule.Routes, 2)
	assert.Equal(t, LenientInt(0), schedule.Routes[0].Type)
	assert.Equal(t, LenientInt(0), schedule.Routes[1].Type)

	require.Len(t, schedule.Stops, 1)
	assert.Equal(t, LenientFloat(0), schedule.Stops[0].Latitude)
	assert.Equal(t, LenientFloat(0), schedule.Stops[0].Longitude)
	// Text fields pass through unmodified
	assert.Equal(t, "Depot", schedule.Stops[0].Name)
}

func TestParseArchiveBOM(t *testing.T) {
	payload := buildZip(t, map[string]string{
		"routes.txt": "\xEF\xBB\xBFroute_id,route_short_name,route_long_name,route_type\n" +
			"10,10,Loop,3\n",
	})

	var schedule Schedule
	require.NoError(t, schedule.ParseArchive(payload))

	require.Len(t, schedule.Routes, 1)
	assert.Equal(t, "10", schedule.Routes[0].ID)
}

func TestParseArchiveNotAZip(t *testing.T) {
	var schedule Schedule
	err := schedule.ParseArchive([]byte("definitely not a zip"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAnArchive)
}
