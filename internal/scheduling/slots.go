package scheduling

// validGranularities are the accepted slot step sizes in minutes.
var validGranularities = map[int]bool{
	5:  true,
	10: true,
	15: true,
	20: true,
	30: true,
}

// Interval is a candidate or occupied time range within a single day.
type Interval struct {
	Start           TimeOfDay
	DurationMinutes int
}

func (i Interval) End() TimeOfDay {
	return i.Start.Add(i.DurationMinutes)
}

// GenerateSlots returns every candidate start time between openTime and
// closeTime, stepping by granularityMinutes. A start time t is included only
// while t + serviceDurationMinutes <= closeTime, so the last slot always fits
// the full service before closing.
func GenerateSlots(openTime, closeTime TimeOfDay, granularityMinutes, serviceDurationMinutes int) ([]TimeOfDay, error) {
	if !validGranularities[granularityMinutes] {
		return nil, ErrInvalidGranularity
	}
	if serviceDurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	slots := make([]TimeOfDay, 0)
	for t := openTime; !closeTime.Before(t.Add(serviceDurationMinutes)); t = t.Add(granularityMinutes) {
		slots = append(slots, t)
	}

	return slots, nil
}

// Overlaps reports whether two half-open intervals [aStart, aStart+aDuration)
// and [bStart, bStart+bDuration) intersect. Intervals that merely touch at a
// boundary do not overlap. This is the single source of truth for interval
// collision; every conflict check goes through it.
func Overlaps(aStart TimeOfDay, aDuration int, bStart TimeOfDay, bDuration int) bool {
	return aStart.Before(bStart.Add(bDuration)) && bStart.Before(aStart.Add(aDuration))
}

// IsSlotFree reports whether the candidate interval collides with any of the
// busy intervals. The caller is responsible for filtering busy down to
// blocking bookings for the right branch, staff and date; this function is
// pure so it can be tested without storage.
func IsSlotFree(candidate Interval, busy []Interval) (bool, error) {
	if candidate.DurationMinutes <= 0 {
		return false, ErrInvalidDuration
	}

	for _, b := range busy {
		if Overlaps(candidate.Start, candidate.DurationMinutes, b.Start, b.DurationMinutes) {
			return false, nil
		}
	}

	return true, nil
}
