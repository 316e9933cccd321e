package observability

import (
	"context"
	"fmt"
	"log/slog"

	"triad/internal/threat/models"
	"triad/pkg/platform/audit"
	"triad/pkg/requestcontext"
)

// AuditHandler returns a sentinel subscriber that mirrors escalations and
// resets into the audit trail. It only enqueues, so it is safe on the
// sentinel's dispatch path.
func AuditHandler(logger *slog.Logger, publisher AuditPublisher, sentinelName string) models.Handler {
	return func(evt models.Event) {
		ctx := requestcontext.WithTime(context.Background(), evt.At)
		switch evt.Type {
		case models.EventThreatDetected:
			if evt.Signal == nil {
				return
			}
			LogAudit(ctx, nil, publisher, audit.EventThreatDetected,
				"signal_id", evt.Signal.ID,
				"threat_type", evt.Signal.Type.String(),
				"pathway", string(evt.Signal.Pathway),
			)
		case models.EventAlertChanged:
			LogAudit(ctx, nil, publisher, audit.EventAlertChanged,
				"sentinel", sentinelName,
				"reason", fmt.Sprintf("%s -> %s", evt.Previous, evt.Level),
			)
		case models.EventLockdownEngaged:
			LogAudit(ctx, logger, publisher, audit.EventLockdownEngaged,
				"sentinel", sentinelName,
				"level", string(evt.Level),
				"alert_score", evt.Score,
			)
		case models.EventAllClear:
			LogAudit(ctx, nil, publisher, audit.EventAllClear,
				"sentinel", sentinelName,
				"reason", fmt.Sprintf("reset from %s", evt.Previous),
			)
		}
	}
}
