package services

import (
	"context"
	"log/slog"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
)

// dispatchEvent hands an event to the notifier without letting delivery
// problems reach the caller. A failed or panicking notifier is logged and
// swallowed; the triggering operation has already committed.
func dispatchEvent(ctx context.Context, notifier portssvc.Notifier, event domain.Event) {
	if notifier == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Notifier panicked", slog.String("kind", string(event.Kind)), slog.Any("panic", r))
		}
	}()
	if err := notifier.Notify(ctx, event); err != nil {
		logger.Warn("Failed to deliver notification",
			slog.String("kind", string(event.Kind)),
			slog.String("error", err.Error()),
		)
	}
}
