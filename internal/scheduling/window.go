// Package scheduling holds the calendar rules of the clinic: the business
// window, slot generation, slot availability and the appointment lifecycle.
// Nothing in this package performs I/O.
package scheduling

import (
	"errors"
	"fmt"
	"time"
)

const clockLayout = "15:04"

// BusinessWindow describes a bookable working day. Offsets are measured from
// local midnight. A lunch break with LunchEnd <= LunchStart is treated as absent.
type BusinessWindow struct {
	Start      time.Duration
	End        time.Duration
	LunchStart time.Duration
	LunchEnd   time.Duration
	SlotLength time.Duration
	LeadTime   time.Duration
}

// DefaultWindow is 09:00-17:00 in 30 minute slots with lunch from 12:00 to 13:00.
func DefaultWindow() BusinessWindow {
	return BusinessWindow{
		Start:      9 * time.Hour,
		End:        17 * time.Hour,
		LunchStart: 12 * time.Hour,
		LunchEnd:   13 * time.Hour,
		SlotLength: 30 * time.Minute,
		LeadTime:   30 * time.Minute,
	}
}

// NewWindow builds a window from "15:04" clock strings.
func NewWindow(start, end, lunchStart, lunchEnd string, slotLength, leadTime time.Duration) (BusinessWindow, error) {
	var w BusinessWindow
	var err error
	if w.Start, err = ParseClock(start); err != nil {
		return w, fmt.Errorf("day start: %w", err)
	}
	if w.End, err = ParseClock(end); err != nil {
		return w, fmt.Errorf("day end: %w", err)
	}
	if lunchStart != "" || lunchEnd != "" {
		if w.LunchStart, err = ParseClock(lunchStart); err != nil {
			return w, fmt.Errorf("lunch start: %w", err)
		}
		if w.LunchEnd, err = ParseClock(lunchEnd); err != nil {
			return w, fmt.Errorf("lunch end: %w", err)
		}
	}
	w.SlotLength = slotLength
	w.LeadTime = leadTime
	return w, w.Validate()
}

func (w BusinessWindow) Validate() error {
	switch {
	case w.SlotLength <= 0:
		return errors.New("slot length must be positive")
	case w.LeadTime < 0:
		return errors.New("lead time must not be negative")
	case w.Start < 0 || w.End > 24*time.Hour:
		return errors.New("business hours must lie within one day")
	case w.End <= w.Start:
		return errors.New("day end must be after day start")
	case w.HasLunch() && (w.LunchStart < w.Start || w.LunchEnd > w.End):
		return errors.New("lunch break must lie within business hours")
	}
	return nil
}

func (w BusinessWindow) HasLunch() bool {
	return w.LunchEnd > w.LunchStart
}

// InBusinessHours reports whether the offset lies in [Start, End).
func (w BusinessWindow) InBusinessHours(offset time.Duration) bool {
	return offset >= w.Start && offset < w.End
}

// InLunch reports whether the offset lies in [LunchStart, LunchEnd).
func (w BusinessWindow) InLunch(offset time.Duration) bool {
	return w.HasLunch() && offset >= w.LunchStart && offset < w.LunchEnd
}

// OnGrid reports whether the offset is a slot boundary counted from Start.
func (w BusinessWindow) OnGrid(offset time.Duration) bool {
	return (offset-w.Start)%w.SlotLength == 0
}

// ParseClock parses "15:04" into an offset from midnight. "24:00" is accepted
// as the end of day.
func ParseClock(s string) (time.Duration, error) {
	if s == "24:00" {
		return 24 * time.Hour, nil
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q, use HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func FormatClock(offset time.Duration) string {
	offset = offset.Truncate(time.Minute)
	return fmt.Sprintf("%02d:%02d", int(offset.Hours()), int(offset.Minutes())%60)
}

// TimeOfDay returns the wall clock offset of t from its local midnight.
func TimeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// StartOfDay returns local midnight of the calendar day holding t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayBounds returns [start of day, start of next day) for t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	y, m, d := start.Date()
	return start, time.Date(y, m, d+1, 0, 0, 0, 0, start.Location())
}

// At places a wall clock offset on the calendar day of day.
func At(day time.Time, offset time.Duration) time.Time {
	y, m, d := day.Date()
	offset = offset.Truncate(time.Second)
	h := int(offset / time.Hour)
	mi := int(offset % time.Hour / time.Minute)
	sec := int(offset % time.Minute / time.Second)
	return time.Date(y, m, d, h, mi, sec, 0, day.Location())
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
