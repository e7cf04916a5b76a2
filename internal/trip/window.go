package trip

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted on input.
const DateLayout = "2006-01-02"

// MaxDays bounds a trip window to roughly ten years.
const MaxDays = 3660

// ErrConfiguration is returned when the trip window is under- or
// over-specified or inconsistent.
var ErrConfiguration = errors.New("invalid date arguments")

// Request holds the partial window inputs. Exactly two of the three fields
// must be set.
type Request struct {
	Start *time.Time
	End   *time.Time
	Days  *int
}

// Window is a resolved trip window. Start and End are inclusive calendar dates
// at midnight, and Days == End-Start+1.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// Resolve derives the missing field of the request and validates the result.
func Resolve(req Request) (Window, error) {
	w, err := resolve(req)
	if err != nil {
		return Window{}, err
	}
	if w.Days > MaxDays {
		return Window{}, fmt.Errorf("%w: trip cannot be longer than %d days: %d", ErrConfiguration, MaxDays, w.Days)
	}
	return w, nil
}

func resolve(req Request) (Window, error) {
	if req.Days != nil && *req.Days <= 0 {
		return Window{}, fmt.Errorf("%w: days must be greater than 0: %d", ErrConfiguration, *req.Days)
	}

	switch {
	case req.Start != nil && req.End != nil && req.Days == nil:
		start, end := Midnight(*req.Start), Midnight(*req.End)
		if start.After(end) {
			return Window{}, fmt.Errorf("%w: start date cannot be after end date", ErrConfiguration)
		}
		return Window{Start: start, End: end, Days: DaysBetween(start, end) + 1}, nil

	case req.Start != nil && req.End == nil && req.Days != nil:
		start := Midnight(*req.Start)
		return Window{Start: start, End: start.AddDate(0, 0, *req.Days-1), Days: *req.Days}, nil

	case req.Start == nil && req.End != nil && req.Days != nil:
		end := Midnight(*req.End)
		return Window{Start: end.AddDate(0, 0, -(*req.Days - 1)), End: end, Days: *req.Days}, nil

	default:
		return Window{}, fmt.Errorf("%w: provide either start and end dates, or days with either start or end date", ErrConfiguration)
	}
}

// Dates returns every calendar date of the window in ascending order.
func (w Window) Dates() []time.Time {
	dates := make([]time.Time, 0, w.Days)
	for i := 0; i < w.Days; i++ {
		dates = append(dates, w.Start.AddDate(0, 0, i))
	}
	return dates
}

// String renders the window as a one-line trip summary.
func (w Window) String() string {
	return fmt.Sprintf("%s to %s (%d days)", w.Start.Format(DateLayout), w.End.Format(DateLayout), w.Days)
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc (UTC when nil).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("not a valid date (YYYY-MM-DD): %s", s)
	}
	return t, nil
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b, ignoring clock time and DST.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
