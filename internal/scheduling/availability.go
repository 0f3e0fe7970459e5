package scheduling

import (
	"fmt"
	"time"

	"healthcare-portal/pkg/apperror"
)

var (
	ErrOutsideBusinessHours = apperror.InvalidRequest("appointment is outside business hours")
	ErrDuringLunch          = apperror.InvalidRequest("appointment falls within the lunch break")
	ErrWeekend              = apperror.InvalidRequest("appointments can only be scheduled on weekdays")
	ErrTooSoon              = apperror.InvalidRequest("appointment must be scheduled further in the future")
	ErrOffGrid              = apperror.InvalidRequest("appointment must start on a slot boundary")
	ErrSlotTaken            = apperror.Conflict("the selected time slot is no longer available")
	ErrSameDayConflict      = apperror.Conflict("patient already has an appointment with this provider on that day")
)

// CheckSlot applies the calendar rules to a requested start time, in order:
// business hours, lunch break, weekday, slot boundary, and the minimum lead
// time relative to now. It does not look at existing bookings.
//
// The slot boundary rule goes beyond the hours, lunch, weekday and lead time
// checks: a start must sit on the window's slot grid, otherwise two
// overlapping appointments could hold different timestamps and both pass
// the unique index on scheduled slots.
func CheckSlot(w BusinessWindow, at, now time.Time) error {
	offset := TimeOfDay(at)
	if !w.InBusinessHours(offset) {
		return apperror.Wrap(apperror.KindInvalidRequest,
			fmt.Sprintf("appointments can only be scheduled between %s and %s", FormatClock(w.Start), FormatClock(w.End)),
			ErrOutsideBusinessHours)
	}
	if w.InLunch(offset) {
		return apperror.Wrap(apperror.KindInvalidRequest,
			fmt.Sprintf("appointments cannot be scheduled between %s and %s", FormatClock(w.LunchStart), FormatClock(w.LunchEnd)),
			ErrDuringLunch)
	}
	if IsWeekend(at) {
		return ErrWeekend
	}
	if !w.OnGrid(offset) {
		return apperror.Wrap(apperror.KindInvalidRequest,
			fmt.Sprintf("appointments start every %s from %s", w.SlotLength, FormatClock(w.Start)),
			ErrOffGrid)
	}
	if !at.After(now.Add(w.LeadTime)) {
		return apperror.Wrap(apperror.KindInvalidRequest,
			fmt.Sprintf("appointments must be booked at least %s in advance", w.LeadTime),
			ErrTooSoon)
	}
	return nil
}

// IsAvailable reports whether at passes CheckSlot and is not already booked.
func IsAvailable(w BusinessWindow, at, now time.Time, booked BookedSet) bool {
	return CheckSlot(w, at, now) == nil && !booked.Has(at)
}
