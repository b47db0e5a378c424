package dataimporter

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/buslane/buslane/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Agency{},
		&models.Route{},
		&models.Stop{},
		&models.Trip{},
		&models.StopTime{},
	))

	return db
}

func buildFeedZip(t *testing.T) []byte {
	t.Helper()

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)

	files := map[string]string{
		"routes.txt": "route_id,route_short_name,route_long_name,route_type\n" +
			"4000,4000,Penrith to Mt Druitt,3\n" +
			"4001,4001,Mt Druitt to Penrith,3\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,Penrith Station,-33.7503,150.6923\n" +
			"S2,Mt Druitt,-33.7701,150.8195\n",
		"trips.txt": "route_id,service_id,trip_id,trip_headsign,direction_id\n" +
			"4000,WEEKDAY,T1,To Mt Druitt,0\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"T1,06:00:00,06:00:00,S1,1\nT1,06:30:00,06:30:00,S2,2\n",
	}

	for name, body := range files {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(body))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return buffer.Bytes()
}

type stubSource struct {
	payload []byte
	err     error
	calls   int
}

func (s *stubSource) Fetch(ctx context.Context, mode string, agencyID string) ([]byte, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	return s.payload, nil
}

func newTestImporter(db *gorm.DB, source FeedSource) *Importer {
	return &Importer{
		DB:        db,
		Source:    source,
		AllowList: DefaultAllowList(),
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, agencyKey string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Where("agency_key = ?", agencyKey).Count(&count).Error)

	return count
}

func TestImportStoresAllRecordKinds(t *testing.T) {
	db := openTestDB(t)
	importer := newTestImporter(db, &stubSource{payload: buildFeedZip(t)})

	result, err := importer.Import(context.Background(), "buses", "GSBC001")
	require.NoError(t, err)

	assert.Equal(t, "buses:GSBC001", result.AgencyKey)
	assert.Equal(t, 2, result.Routes)
	assert.Equal(t, 2, result.Stops)
	assert.Equal(t, 1, result.Trips)
	assert.Equal(t, 2, result.StopTimes)

	assert.EqualValues(t, 2, countRows(t, db, &models.Route{}, "buses:GSBC001"))
	assert.EqualValues(t, 2, countRows(t, db, &models.Stop{}, "buses:GSBC001"))
	assert.EqualValues(t, 1, countRows(t, db, &models.Trip{}, "buses:GSBC001"))
	assert.EqualValues(t, 2, countRows(t, db, &models.StopTime{}, "buses:GSBC001"))

	var agency models.Agency
	require.NoError(t, db.Where("mode = ? AND agency_id = ?", "buses", "GSBC001").First(&agency).Error)
	assert.False(t, agency.ImportedAt.IsZero())
}

func TestImportReplaceIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	source := &stubSource{payload: buildFeedZip(t)}
	importer := newTestImporter(db, source)

	_, err := importer.Import(context.Background(), "buses", "GSBC001")
	require.NoError(t, err)

	_, err = importer.Import(context.Background(), "buses", "GSBC001")
	require.NoError(t, err)

	assert.Equal(t, 2, source.calls)
	assert.EqualValues(t, 2, countRows(t, db, &models.Route{}, "buses:GSBC001"))
	assert.EqualValues(t, 2, countRows(t, db, &models.StopTime{}, "buses:GSBC001"))

	var agencies int64
	db.Model(&models.Agency{}).Count(&agencies)
	assert.EqualValues(t, 1, agencies)
}

func TestImportFailedFetchKeepsPreviousRows(t *testing.T) {
	db := openTestDB(t)

	_, err := newTestImporter(db, &stubSource{payload: buildFeedZip(t)}).
		Import(context.Background(), "buses", "GSBC001")
	require.NoError(t, err)

	failing := &stubSource{err: fmt.Errorf("%w: status 503", ErrUpstreamStatus)}
	_, err = newTestImporter(db, failing).Import(context.Background(), "buses", "GSBC001")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamStatus)

	// The previous import survives a failed refresh
	assert.EqualValues(t, 2, countRows(t, db, &models.Route{}, "buses:GSBC001"))
}

func TestImportMalformedArchiveKeepsPreviousRows(t *testing.T) {
	db := openTestDB(t)

	_, err := newTestImporter(db, &stubSource{payload: buildFeedZip(t)}).
		Import(context.Background(), "buses", "GSBC001")
	require.NoError(t, err)

	garbage := &stubSource{payload: []byte("not a zip at all")}
	_, err = newTestImporter(db, garbage).Import(context.Background(), "buses", "GSBC001")
	require.Error(t, err)

	assert.EqualValues(t, 2, countRows(t, db, &models.Route{}, "buses:GSBC001"))
}

func TestImportAllowListGating(t *testing.T) {
	db := openTestDB(t)
	source := &stubSource{payload: buildFeedZip(t)}
	importer := newTestImporter(db, source)

	_, err := importer.Import(context.Background(), "buses", "XYZW001")
	assert.ErrorIs(t, err, ErrAgencyNotAllowed)

	_, err = importer.Import(context.Background(), "buses", "GSBC999")
	assert.ErrorIs(t, err, ErrAgencyUnknown)

	// Neither failure may touch the upstream
	assert.Equal(t, 0, source.calls)
}

func TestImportUpstreamTimeoutIsDistinguishable(t *testing.T) {
	db := openTestDB(t)
	timeoutErr := fmt.Errorf("%w: fetch", ErrUpstreamTimeout)
	importer := newTestImporter(db, &stubSource{err: timeoutErr})

	_, err := importer.Import(context.Background(), "buses", "GSBC001")
	assert.ErrorIs(t, err, ErrUpstreamTimeout)
	assert.False(t, errors.Is(err, ErrUpstreamStatus))
}
