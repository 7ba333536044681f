package shell

import "time"

// Severity of a toast.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Toast defaults.
const (
	DefaultToastInterval = 100 * time.Millisecond
	DefaultToastLifetime = 5 * time.Second
)

// Toast is a transient notification. Progress runs from 100 down to 0; it is driven by Tick
// calls and is not a precise timer.
type Toast struct {
	Severity Severity
	Message  string
	Progress float64
}

// Visible reports whether the toast is still shown.
func (t *Toast) Visible() bool {
	return t != nil && t.Progress > 0
}

type toastClock struct {
	interval time.Duration
	step     float64
}

func newToastClock(interval, lifetime time.Duration) toastClock {
	if interval <= 0 {
		interval = DefaultToastInterval
	}
	if lifetime < interval {
		lifetime = DefaultToastLifetime
	}
	return toastClock{interval: interval, step: 100 * float64(interval) / float64(lifetime)}
}
