package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hearthsplit/household_manager_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories into the provider
// consumed by the service container.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PaycheckRepo: NewPgxPaycheckRepository(pool),
		DebtRepo:     NewPgxDebtRepository(pool),
		ArchiveRepo:  NewPgxArchiveRepository(pool),
	}
}
