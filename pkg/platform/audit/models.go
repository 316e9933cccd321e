// Package audit defines the security audit trail: who changed sentinel or
// corrector state, and every escalation the sentinel raised.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategorySecurity covers events relevant to security monitoring and forensics.
	// Examples: lockdowns, operator resets, quarantined records.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// AuditEvent names an audited action.
type AuditEvent string

const (
	// Sentinel events
	EventThreatDetected      AuditEvent = "threat_detected"
	EventAlertChanged        AuditEvent = "alert_changed"
	EventLockdownEngaged     AuditEvent = "lockdown_engaged"
	EventAllClear            AuditEvent = "all_clear"
	EventSensitivityAdjusted AuditEvent = "sensitivity_adjusted"

	// Corrector events
	EventRecordQuarantined   AuditEvent = "record_quarantined"
	EventIntegrityStatsReset AuditEvent = "integrity_stats_reset"

	// Access events
	EventOperatorAuthFailed AuditEvent = "operator_auth_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventThreatDetected:      CategorySecurity,
	EventAlertChanged:        CategorySecurity,
	EventLockdownEngaged:     CategorySecurity,
	EventAllClear:            CategorySecurity,
	EventSensitivityAdjusted: CategorySecurity,
	EventRecordQuarantined:   CategorySecurity,
	EventOperatorAuthFailed:  CategorySecurity,

	EventIntegrityStatsReset: CategoryOperations,
}

var eventSeverities = map[AuditEvent]Severity{
	EventLockdownEngaged:     SeverityCritical,
	EventThreatDetected:      SeverityWarning,
	EventAlertChanged:        SeverityWarning,
	EventSensitivityAdjusted: SeverityWarning,
	EventRecordQuarantined:   SeverityWarning,
	EventOperatorAuthFailed:  SeverityWarning,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Severity returns the SIEM severity for this audit event.
// Unknown events default to SeverityInfo.
func (e AuditEvent) Severity() Severity {
	if sev, ok := eventSeverities[e]; ok {
		return sev
	}
	return SeverityInfo
}

// SecurityEvent captures security-relevant actions for SIEM and alerting.
// Events are processed asynchronously with buffering and retry.
type SecurityEvent struct {
	Timestamp time.Time `json:"timestamp"`  // When the event occurred (set automatically if zero)
	Subject   string    `json:"subject"`    // Entity involved (record ID, signal ID, sentinel name)
	Action    string    `json:"action"`     // Audited action (e.g., "lockdown_engaged")
	Reason    string    `json:"reason"`     // Why this happened (e.g., "manipulation_detected")
	IP        string    `json:"ip"`         // Client IP address when triggered over HTTP
	RequestID string    `json:"request_id"` // Correlation ID
	ActorID   string    `json:"actor_id"`   // Operator who triggered the action, if any
	Severity  Severity  `json:"severity"`   // "info", "warning", "critical" for SIEM routing
}

// Severity levels for security events.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Category returns CategorySecurity (always).
func (e SecurityEvent) Category() EventCategory { return CategorySecurity }

// Store persists security events.
type Store interface {
	AppendSecurity(ctx context.Context, event SecurityEvent) error
	ListRecent(ctx context.Context, limit int) ([]SecurityEvent, error)
}
