package gtfs

import (
	"strconv"
	"strings"
)

// Provider feeds routinely carry blank or garbage numeric columns.
// Dropping the whole import over one bad cell would make whole agencies
// unavailable, so numeric fields decode to zero instead of failing.

type LenientInt int

func (l *LenientInt) UnmarshalCSV(value string) error {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		*l = 0
		return nil
	}

	*l = LenientInt(parsed)

	return nil
}

type LenientFloat float64

func (l *LenientFloat) UnmarshalCSV(value string) error {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		*l = 0
		return nil
	}

	*l = LenientFloat(parsed)

	return nil
}
