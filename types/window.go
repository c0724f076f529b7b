package types

import (
	"fmt"
	"time"
)

// Window is the half open time range [Start, End) a record source is asked to read
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) Window {
	return Window{Start: start.UTC(), End: end.UTC()}
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) IsEmpty() bool {
	return !w.End.After(w.Start)
}

// Split breaks the window into consecutive slices no longer than maxSpan.
// A non positive maxSpan returns the window unchanged.
func (w Window) Split(maxSpan time.Duration) []Window {
	if maxSpan <= 0 || w.Duration() <= maxSpan {
		return []Window{w}
	}

	var windows []Window
	for start := w.Start; start.Before(w.End); start = start.Add(maxSpan) {
		end := start.Add(maxSpan)
		if end.After(w.End) {
			end = w.End
		}
		windows = append(windows, Window{Start: start, End: end})
	}

	return windows
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}
