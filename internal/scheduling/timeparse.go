package scheduling

import (
	"fmt"
	"time"

	"healthcare-portal/pkg/apperror"
)

const (
	DateLayout      = "2006-01-02"
	localTimeLayout = "2006-01-02T15:04:05"
)

var ErrInvalidTimestamp = apperror.InvalidRequest("invalid appointment time, use RFC3339 or 2006-01-02T15:04:05")

// ParseTimestamp reads an appointment time. Values without an offset are
// clinic wall time in loc; values with an offset are converted to loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation(localTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, apperror.Wrap(apperror.KindInvalidRequest, fmt.Sprintf("invalid appointment time %q", s), ErrInvalidTimestamp)
	}
	return t, nil
}

// ParseDate reads a YYYY-MM-DD calendar day as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, apperror.InvalidRequest(fmt.Sprintf("invalid date %q, use YYYY-MM-DD", s))
	}
	return t, nil
}
