package domain

import (
	"fmt"
	"time"
)

// TimeWindow is a half-open-in-spirit but inclusively compared span of time.
// End is always strictly after Start for windows built through the
// constructors.
// swagger:model TimeWindow
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindowFromDuration builds a window from a start time and a duration in
// hours. Fractional hours are allowed; the duration must be positive.
func NewWindowFromDuration(start time.Time, hours float64) (TimeWindow, error) {
	if hours <= 0 {
		return TimeWindow{}, fmt.Errorf("%w: duration must be positive, got %v hours", ErrInvalidWindow, hours)
	}
	d := time.Duration(hours * float64(time.Hour))
	return TimeWindow{Start: start, End: start.Add(d)}, nil
}

// NewWindowWithEnd builds a window from explicit start and end times. The end
// must be strictly after the start.
func NewWindowWithEnd(start, end time.Time) (TimeWindow, error) {
	if !end.After(start) {
		return TimeWindow{}, fmt.Errorf("%w: end must be after start", ErrInvalidWindow)
	}
	return TimeWindow{Start: start, End: end}, nil
}

// WindowFromSpec builds a window from a start time plus exactly one of
// durationHours or end. Supplying both or neither is ambiguous.
func WindowFromSpec(start time.Time, durationHours *float64, end *time.Time) (TimeWindow, error) {
	if (durationHours == nil) == (end == nil) {
		return TimeWindow{}, ErrAmbiguousWindow
	}
	if durationHours != nil {
		return NewWindowFromDuration(start, *durationHours)
	}
	return NewWindowWithEnd(start, *end)
}

// Contains reports whether inner lies entirely within w. Boundaries are
// inclusive, so a window contains itself.
func (w TimeWindow) Contains(inner TimeWindow) bool {
	return !inner.Start.Before(w.Start) && !inner.End.After(w.End)
}

// IsFuture reports whether the window starts strictly after now.
func (w TimeWindow) IsFuture(now time.Time) bool {
	return w.Start.After(now)
}

// Duration returns the window's span.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
