package parse

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// Time parses a machine-readable timestamp (a datetime attribute value and
// alike). The exact format is not guaranteed by the markup, so be liberal in
// what we accept.
func Time(value string) (time.Time, error) {
	date, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time: %q", value)
	}
	return date, nil
}
