package services

import (
	"context"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
)

// Notifier delivers settlement lifecycle events out-of-band.
// The service layer treats delivery as fire-and-forget: errors returned here
// are logged and swallowed, never surfaced as an operation failure.
type Notifier interface {
	Notify(ctx context.Context, event domain.Event) error
}
