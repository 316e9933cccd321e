package models

import (
	"time"

	rmodels "triad/internal/record/models"
)

// ScanInput is anything submitted for screening. At least one field must
// be set.
type ScanInput struct {
	Frequency *float64                `json:"frequency,omitempty" cbor:"frequency,omitempty"`
	Record    *rmodels.EncodingRecord `json:"record,omitempty" cbor:"record,omitempty"`
	Content   string                  `json:"content,omitempty" cbor:"content,omitempty"`
	Intention *Intention              `json:"intention,omitempty" cbor:"intention,omitempty"`
	Source    string                  `json:"source,omitempty" cbor:"source,omitempty"`
}

// IsEmpty reports whether there is nothing to screen.
func (in ScanInput) IsEmpty() bool {
	return in.Frequency == nil && in.Record == nil && in.Content == "" && in.Intention == nil
}

// EventType discriminates sentinel events.
type EventType string

const (
	EventThreatDetected  EventType = "threat_detected"
	EventAlertChanged    EventType = "alert_changed"
	EventLockdownEngaged EventType = "lockdown_engaged"
	EventAllClear        EventType = "all_clear"
)

// Event is delivered to subscribers. Signal is set for threat_detected;
// Previous and Level are set for alert_changed and lockdown_engaged.
type Event struct {
	Type     EventType  `json:"type"`
	Signal   *Signal    `json:"signal,omitempty"`
	Previous AlertLevel `json:"previous_level,omitempty"`
	Level    AlertLevel `json:"new_level,omitempty"`
	Score    float64    `json:"alert_score"`
	At       time.Time  `json:"at"`
}

// Handler receives sentinel events synchronously, in subscription order.
type Handler func(Event)
