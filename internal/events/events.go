// Package events provides notifications for harness progress.
package events

import "time"

// EventType represents the type of event
type EventType string

const (
	// EventStateChange is emitted when the harness enters a new state
	EventStateChange EventType = "state_change"
	// EventPassComplete is emitted when a benchmark pass finishes
	EventPassComplete EventType = "pass_complete"
	// EventPassFailed is emitted when a store error aborts a pass
	EventPassFailed EventType = "pass_failed"
)

// Event represents a harness event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Data      EventData `json:"data,omitempty"`
}

// EventData contains event-specific data
type EventData struct {
	State    string `json:"state,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	Pass     int    `json:"pass,omitempty"`
	Elapsed  string `json:"elapsed,omitempty"`
	Written  int    `json:"written,omitempty"`
	Dropped  int    `json:"dropped,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewStateChangeEvent creates a state change event
func NewStateChangeEvent(runID, state string) Event {
	return Event{
		Type:      EventStateChange,
		Timestamp: time.Now(),
		RunID:     runID,
		Data: EventData{
			State: state,
		},
	}
}

// NewPassCompleteEvent creates a pass completion event
func NewPassCompleteEvent(runID, strategy string, pass int, elapsed time.Duration, written, dropped int) Event {
	return Event{
		Type:      EventPassComplete,
		Timestamp: time.Now(),
		RunID:     runID,
		Data: EventData{
			Strategy: strategy,
			Pass:     pass,
			Elapsed:  elapsed.String(),
			Written:  written,
			Dropped:  dropped,
		},
	}
}

// NewPassFailedEvent creates a pass failure event
func NewPassFailedEvent(runID, strategy string, pass int, err error) Event {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	return Event{
		Type:      EventPassFailed,
		Timestamp: time.Now(),
		RunID:     runID,
		Data: EventData{
			Strategy: strategy,
			Pass:     pass,
			Error:    errMsg,
		},
	}
}
