package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// ErrNotAnArchive marks a payload that is not a valid zip container.
var ErrNotAnArchive = errors.New("payload is not a zip archive")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Schedule struct {
	Routes    []Route
	Stops     []Stop
	Trips     []Trip
	StopTimes []StopTime
}

// ParseArchive decodes a GTFS schedule zip. File names are matched
// case-insensitively and may sit behind a folder prefix such as
// "google_transit/routes.txt". Missing files simply leave their record
// slice empty.
func (s *Schedule) ParseArchive(payload []byte) error {
	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	archive, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotAnArchive, err)
	}

	fileMap := map[string]interface{}{
		"routes.txt":     &s.Routes,
		"stops.txt":      &s.Stops,
		"trips.txt":      &s.Trips,
		"stop_times.txt": &s.StopTimes,
	}

	for fileName, destination := range fileMap {
		zipFile := findArchiveFile(archive, fileName)
		if zipFile == nil {
			log.Debug().Str("file", fileName).Msg("Not present in archive")
			continue
		}

		fileReader, err := zipFile.Open()
		if err != nil {
			return err
		}

		body, err := io.ReadAll(fileReader)
		fileReader.Close()
		if err != nil {
			return err
		}

		// Some provider files start with a UTF-8 byte order mark
		body = bytes.TrimPrefix(body, utf8BOM)

		err = gocsv.UnmarshalBytes(body, destination)
		if err != nil {
			log.Error().Str("file", zipFile.Name).Err(err).Msg("Failed to parse csv file")
			return err
		}
	}

	return nil
}

func findArchiveFile(archive *zip.Reader, fileName string) *zip.File {
	target := strings.ToLower(fileName)

	for _, zipFile := range archive.File {
		name := strings.ToLower(zipFile.Name)

		if name == target || strings.HasSuffix(name, "/"+target) {
			return zipFile
		}
	}

	return nil
}
