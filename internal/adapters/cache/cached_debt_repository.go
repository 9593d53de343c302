package cache

import (
	"context"
	"time"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_manager_app/internal/core/ports/repositories"
)

const (
	debtListKey    = "debts:all"
	archiveListKey = "archive:all"
)

// CachedDebtRepository wraps a debt repository with a TTL cache over the
// full-list read. Every write invalidates the cache synchronously before
// returning, so a read issued after a write never sees the stale list.
// Point lookups go straight to the underlying repository.
type CachedDebtRepository struct {
	inner portsrepo.DebtRepositoryFacade
	cache *TTLCache[[]domain.DebtItem]
}

// NewCachedDebtRepository decorates repo with a list cache expiring after ttl.
func NewCachedDebtRepository(inner portsrepo.DebtRepositoryFacade, ttl time.Duration) *CachedDebtRepository {
	return &CachedDebtRepository{
		inner: inner,
		cache: NewTTLCache[[]domain.DebtItem](ttl),
	}
}

var _ portsrepo.DebtRepositoryFacade = (*CachedDebtRepository)(nil)

func (r *CachedDebtRepository) ListDebts(ctx context.Context) ([]domain.DebtItem, error) {
	if debts, ok := r.cache.Get(debtListKey); ok {
		return debts, nil
	}
	debts, err := r.inner.ListDebts(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(debtListKey, debts)
	return debts, nil
}

func (r *CachedDebtRepository) FindDebtsByIDs(ctx context.Context, debtIDs []string) (map[string]domain.DebtItem, error) {
	return r.inner.FindDebtsByIDs(ctx, debtIDs)
}

func (r *CachedDebtRepository) FindDebtsByPurchaseID(ctx context.Context, purchaseID string) ([]domain.DebtItem, error) {
	return r.inner.FindDebtsByPurchaseID(ctx, purchaseID)
}

func (r *CachedDebtRepository) SaveDebts(ctx context.Context, debts []domain.DebtItem) error {
	if err := r.inner.SaveDebts(ctx, debts); err != nil {
		return err
	}
	r.cache.Delete(debtListKey)
	return nil
}

func (r *CachedDebtRepository) MarkDebtPaid(ctx context.Context, debtID string, paidAt time.Time, paidBy string) error {
	if err := r.inner.MarkDebtPaid(ctx, debtID, paidAt, paidBy); err != nil {
		return err
	}
	r.cache.Delete(debtListKey)
	return nil
}

func (r *CachedDebtRepository) DeleteDebtsByPurchaseID(ctx context.Context, purchaseID string) (int64, error) {
	removed, err := r.inner.DeleteDebtsByPurchaseID(ctx, purchaseID)
	if err != nil {
		return 0, err
	}
	r.cache.Delete(debtListKey)
	return removed, nil
}

// CachedArchiveRepository is the archive counterpart of CachedDebtRepository.
type CachedArchiveRepository struct {
	inner portsrepo.ArchiveRepositoryFacade
	cache *TTLCache[[]domain.ArchivedDebtItem]
}

// NewCachedArchiveRepository decorates repo with a list cache expiring after ttl.
func NewCachedArchiveRepository(inner portsrepo.ArchiveRepositoryFacade, ttl time.Duration) *CachedArchiveRepository {
	return &CachedArchiveRepository{
		inner: inner,
		cache: NewTTLCache[[]domain.ArchivedDebtItem](ttl),
	}
}

var _ portsrepo.ArchiveRepositoryFacade = (*CachedArchiveRepository)(nil)

func (r *CachedArchiveRepository) ListArchivedDebts(ctx context.Context) ([]domain.ArchivedDebtItem, error) {
	if archived, ok := r.cache.Get(archiveListKey); ok {
		return archived, nil
	}
	archived, err := r.inner.ListArchivedDebts(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(archiveListKey, archived)
	return archived, nil
}

func (r *CachedArchiveRepository) FindArchivedDebtsByIDs(ctx context.Context, debtIDs []string) (map[string]domain.ArchivedDebtItem, error) {
	return r.inner.FindArchivedDebtsByIDs(ctx, debtIDs)
}

func (r *CachedArchiveRepository) SaveArchivedDebt(ctx context.Context, archived domain.ArchivedDebtItem) error {
	if err := r.inner.SaveArchivedDebt(ctx, archived); err != nil {
		return err
	}
	r.cache.Delete(archiveListKey)
	return nil
}

func (r *CachedArchiveRepository) ApproveArchivedDebt(ctx context.Context, debtID string, approvedAt time.Time, approvedBy string) error {
	if err := r.inner.ApproveArchivedDebt(ctx, debtID, approvedAt, approvedBy); err != nil {
		return err
	}
	r.cache.Delete(archiveListKey)
	return nil
}
