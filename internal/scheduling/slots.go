package scheduling

import (
	"iter"
	"time"
)

// Slot is a candidate start time. It is derived on every query and never stored.
type Slot struct {
	Start     time.Time
	Available bool
}

// GenerateSlots yields the slot start times of day in ascending order:
// Start, Start+SlotLength, ... strictly before End, skipping the lunch break.
// Weekends and days before the calendar day of now yield nothing. The
// sequence ignores bookings and can be ranged over any number of times.
func GenerateSlots(day, now time.Time, w BusinessWindow) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if w.SlotLength <= 0 || IsWeekend(day) {
			return
		}
		if StartOfDay(day).Before(StartOfDay(now.In(day.Location()))) {
			return
		}
		for offset := w.Start; offset < w.End; offset += w.SlotLength {
			if w.InLunch(offset) {
				continue
			}
			if !yield(At(day, offset)) {
				return
			}
		}
	}
}

// BookedSet is the set of start times already holding a scheduled appointment.
type BookedSet map[int64]struct{}

func NewBookedSet(times []time.Time) BookedSet {
	set := make(BookedSet, len(times))
	for _, t := range times {
		set[t.Unix()] = struct{}{}
	}
	return set
}

func (s BookedSet) Has(t time.Time) bool {
	_, ok := s[t.Unix()]
	return ok
}

// DaySlots materialises the slots of day and marks each one available when it
// passes every availability check against booked.
func DaySlots(day, now time.Time, w BusinessWindow, booked BookedSet) []Slot {
	var slots []Slot
	for start := range GenerateSlots(day, now, w) {
		slots = append(slots, Slot{
			Start:     start,
			Available: IsAvailable(w, start, now, booked),
		})
	}
	return slots
}
