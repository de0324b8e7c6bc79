package metadata

import (
	"fmt"
	"time"
)

// WindowSpan is the number of days covered by one window, inclusive.
const WindowSpan = 7

// Window is an inclusive range of collection dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// Name returns "<start>_<end>" with ISO dates.
func (w Window) Name() string {
	return w.Start.Format(time.DateOnly) + "_" + w.End.Format(time.DateOnly)
}

// Windows enumerates windows of WindowSpan days starting at start and
// advancing by step days while the window start is not after end.
func Windows(start, end time.Time, step int) ([]Window, error) {
	if step <= 0 {
		return nil, fmt.Errorf("window step must be positive, got %d", step)
	}
	var out []Window
	for s := start; !s.After(end); s = s.AddDate(0, 0, step) {
		out = append(out, Window{Start: s, End: s.AddDate(0, 0, WindowSpan-1)})
	}
	return out, nil
}

// ParseDate parses an ISO yyyy-mm-dd date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected yyyy-mm-dd", s)
	}
	return t, nil
}
