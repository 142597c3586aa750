package domain

import "time"

// DateRange is a closed interval [Start, End].
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether r and o intersect. Boundaries are inclusive, so a
// booking returned on the date another is picked up is a conflict.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// IsAvailable reports whether carID can be reserved for r given the existing
// bookings. Cancelled bookings and bookings of other cars never block.
func IsAvailable(existing []Booking, carID string, r DateRange) bool {
	for i := range existing {
		b := &existing[i]
		if b.CarID != carID || b.Status == BookingStatusCancelled {
			continue
		}
		if b.Range().Overlaps(r) {
			return false
		}
	}
	return true
}
