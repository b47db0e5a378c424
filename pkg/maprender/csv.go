package maprender

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

type csvPointRecord struct {
	Agency   string `csv:"agency"`
	RouteID  string `csv:"route_id"`
	Sequence int    `csv:"seq"`
	StopID   string `csv:"stop_id"`
	StopName string `csv:"stop_name"`
	Lon      string `csv:"lon"`
	Lat      string `csv:"lat"`
}

// WriteCSV emits one row per (route, ordered stop), coordinates fixed to
// 6 decimal places.
func WriteCSV(writer io.Writer, series []RouteSeries) error {
	var records []csvPointRecord

	for _, routeSeries := range series {
		for _, point := range routeSeries.Points {
			records = append(records, csvPointRecord{
				Agency:   routeSeries.Agency,
				RouteID:  routeSeries.RouteID,
				Sequence: point.Sequence,
				StopID:   point.StopID,
				StopName: point.StopName,
				Lon:      fmt.Sprintf("%.6f", point.Lon),
				Lat:      fmt.Sprintf("%.6f", point.Lat),
			})
		}
	}

	return gocsv.Marshal(&records, writer)
}
