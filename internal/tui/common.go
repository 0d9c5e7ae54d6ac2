package tui

import (
	"fmt"
	"time"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTasks viewState = iota
	viewGoals
	viewFocus
	viewStats
	viewSettings
)

var viewNames = []string{"Tasks", "Goals", "Focus", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatMinutes(m int) string {
	if m <= 0 {
		return "-"
	}
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
