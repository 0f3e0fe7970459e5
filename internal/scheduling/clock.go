package scheduling

import "time"

type Clock interface {
	Now() time.Time
}

// LocalClock reports wall time in the clinic location.
type LocalClock struct {
	Location *time.Location
}

func (c LocalClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}
