// Package player drives single playback sessions and the transition
// visual shown between them.
package player

import (
	"context"

	"gifbox/internal/buttons"
)

// Result is the tagged outcome of one playback session.
type Result int

const (
	// AdvanceNext: the "next" button interrupted playback.
	AdvanceNext Result = iota
	// AdvancePrevious: the "previous" button interrupted playback.
	AdvancePrevious
	// SwitchMode: the "mode" button interrupted playback.
	SwitchMode
	// Completed: the asset exhausted its loop budget without interruption.
	Completed
	// Failed: the asset could not be decoded or rendered.
	Failed
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case AdvanceNext:
		return "AdvanceNext"
	case AdvancePrevious:
		return "AdvancePrevious"
	case SwitchMode:
		return "SwitchMode"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// InputSource yields at most one debounced navigation event per poll.
type InputSource interface {
	Poll(ctx context.Context) (buttons.ID, bool)
}
