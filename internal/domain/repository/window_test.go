package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWindow(t *testing.T) {
	tests := []struct {
		in   string
		want Window
	}{
		{"1m", Win1M},
		{"6m", Win6M},
		{"5y", Win5Y},
		{"", Win1Y},
		{"7d", Win1Y},
		{"1Y", Win1Y},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeWindow(tc.in), "input %q", tc.in)
	}
}

func TestWindowStart(t *testing.T) {
	end := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, end.AddDate(0, -1, 0), Win1M.Start(end))
	assert.Equal(t, end.AddDate(0, -6, 0), Win6M.Start(end))
	assert.Equal(t, end.AddDate(-1, 0, 0), Win1Y.Start(end))
	assert.Equal(t, end.AddDate(-5, 0, 0), Win5Y.Start(end))
	assert.True(t, Win5Y.Start(end).Before(Win1M.Start(end)))
}
