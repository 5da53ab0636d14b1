package workflow

import (
	"context"
	"fmt"

	"clipscribe/internal/logging"
	"clipscribe/internal/notifications"
)

func (m *Manager) notifyRunStarted(ctx context.Context, candidates int) {
	if candidates == 0 {
		return
	}
	m.publish(ctx, notifications.EventRunStarted, notifications.Payload{"candidates": candidates})
}

func (m *Manager) notifyRunCompleted(ctx context.Context, summary Summary) {
	if summary.Candidates == 0 {
		return
	}
	m.publish(ctx, notifications.EventRunCompleted, summary.payload())
}

func (m *Manager) notifyClipError(ctx context.Context, result ClipResult) {
	m.publish(ctx, notifications.EventError, notifications.Payload{
		"context": fmt.Sprintf("clip %d", result.ClipID),
		"error":   result.Err,
	})
}

func (m *Manager) publish(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Publish(ctx, event, payload); err != nil {
		logging.WarnWithContext(m.logger, "notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "run status was not pushed"),
		)
	}
}
