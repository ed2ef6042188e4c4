package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	CategoryRepo    CategoryRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	EntryRepo       EntryRepositoryFacade
	PeriodRepo      PeriodRepositoryFacade
}

// Store is a persistence backend: repositories for non-transactional reads plus
// the ability to run a unit of work.
type Store interface {
	TransactionManager
	Repositories() RepositoryProvider
}
