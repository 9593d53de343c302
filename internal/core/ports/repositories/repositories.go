package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// container. The Ledger Store is the sole owner of all persisted records;
// services hold transient in-memory copies only for the duration of one call.
type RepositoryProvider struct {
	PaycheckRepo PaycheckRepositoryFacade
	DebtRepo     DebtRepositoryFacade
	ArchiveRepo  ArchiveRepositoryFacade
}
