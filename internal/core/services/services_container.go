package services

import (
	portsrepo "github.com/hearthsplit/household_manager_app/internal/core/ports/repositories"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	notifier portssvc.Notifier,
	receipts portssvc.ReceiptStore,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Paycheck service first since the expense splitter reads income means from it
	container.Paycheck = NewPaycheckService(repos.PaycheckRepo)

	container.Expense = NewExpenseService(
		container.Paycheck,
		repos.DebtRepo,
		receipts,
		notifier,
		cfg.Users,
	)

	container.Settlement = NewSettlementService(
		repos.DebtRepo,
		repos.ArchiveRepo,
		notifier,
	)

	return container
}
