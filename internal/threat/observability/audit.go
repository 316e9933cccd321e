// Package observability provides audit logging helpers for the sentinel module.
package observability

import (
	"context"
	"log/slog"

	"triad/pkg/attrs"
	"triad/pkg/platform/audit"
	"triad/pkg/platform/audit/publishers/security"
	"triad/pkg/requestcontext"
)

// AuditPublisher is the security publisher that receives sentinel audit events.
type AuditPublisher = *security.Publisher

// LogAudit logs audit events to both structured logger and audit publisher.
// Subject and reason are taken from attrList; operator, client IP and request
// ID come from ctx.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.AuditEvent, attrList ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attrList = append(attrList, "request_id", requestID)
	}
	operator := requestcontext.Operator(ctx)
	if operator != "" {
		attrList = append(attrList, "operator", operator)
	}

	if logger != nil {
		args := append(attrList, "event", string(event), "log_type", "audit")
		logger.InfoContext(ctx, string(event), args...)
	}

	if publisher == nil {
		return
	}

	publisher.Emit(ctx, audit.SecurityEvent{
		Action:    string(event),
		Subject:   attrs.FirstString(attrList, "signal_id", "record_id", "sentinel"),
		Reason:    attrs.FirstString(attrList, "reason", "threat_type", "level"),
		IP:        requestcontext.ClientIP(ctx),
		RequestID: requestID,
		ActorID:   operator,
		Severity:  event.Severity(),
	})
}
