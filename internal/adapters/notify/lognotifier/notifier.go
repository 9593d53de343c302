package lognotifier

import (
	"context"
	"log/slog"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
)

// Notifier writes events to the structured log instead of a broker. Used
// when no AMQP URL is configured, typically in local development.
type Notifier struct{}

func New() *Notifier {
	return &Notifier{}
}

var _ portssvc.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(ctx context.Context, event domain.Event) error {
	middleware.GetLoggerFromCtx(ctx).Info("Notification",
		slog.String("kind", string(event.Kind)),
		slog.Any("participants", event.Participants),
		slog.Any("payload", event.Payload),
	)
	return nil
}
