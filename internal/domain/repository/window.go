package repository

import "time"

// Window represents an analytics lookback range.
type Window string

const (
	Win1M Window = "1m"
	Win3M Window = "3m"
	Win6M Window = "6m"
	Win1Y Window = "1y"
	Win2Y Window = "2y"
	Win5Y Window = "5y"
)

// IsValidWindow returns true if w is a supported window.
func IsValidWindow(w Window) bool {
	switch w {
	case Win1M, Win3M, Win6M, Win1Y, Win2Y, Win5Y:
		return true
	default:
		return false
	}
}

// DefaultWindow returns the default lookback window.
func DefaultWindow() Window { return Win1Y }

// NormalizeWindow converts a raw string to a valid window (or default).
func NormalizeWindow(s string) Window {
	if s == "" {
		return DefaultWindow()
	}
	w := Window(s)
	if IsValidWindow(w) {
		return w
	}
	return DefaultWindow()
}

// Start returns the window's start date relative to end.
func (w Window) Start(end time.Time) time.Time {
	switch w {
	case Win1M:
		return end.AddDate(0, -1, 0)
	case Win3M:
		return end.AddDate(0, -3, 0)
	case Win6M:
		return end.AddDate(0, -6, 0)
	case Win2Y:
		return end.AddDate(-2, 0, 0)
	case Win5Y:
		return end.AddDate(-5, 0, 0)
	default:
		return end.AddDate(-1, 0, 0)
	}
}
