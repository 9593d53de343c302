package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/hearthsplit/household_manager_app/internal/adapters/cache"
	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDebtRepo counts list reads and serves canned rows.
type stubDebtRepo struct {
	listCalls int
	debts     []domain.DebtItem
}

func (s *stubDebtRepo) ListDebts(context.Context) ([]domain.DebtItem, error) {
	s.listCalls++
	return s.debts, nil
}

func (s *stubDebtRepo) FindDebtsByIDs(context.Context, []string) (map[string]domain.DebtItem, error) {
	return nil, nil
}

func (s *stubDebtRepo) FindDebtsByPurchaseID(context.Context, string) ([]domain.DebtItem, error) {
	return nil, nil
}

func (s *stubDebtRepo) SaveDebts(_ context.Context, debts []domain.DebtItem) error {
	s.debts = append(s.debts, debts...)
	return nil
}

func (s *stubDebtRepo) MarkDebtPaid(context.Context, string, time.Time, string) error {
	return nil
}

func (s *stubDebtRepo) DeleteDebtsByPurchaseID(context.Context, string) (int64, error) {
	s.debts = nil
	return 1, nil
}

func TestCachedDebtRepository_ServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	inner := &stubDebtRepo{debts: []domain.DebtItem{{DebtID: "d1"}}}
	repo := cache.NewCachedDebtRepository(inner, time.Minute)

	first, err := repo.ListDebts(ctx)
	require.NoError(t, err)
	second, err := repo.ListDebts(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.listCalls)
}

func TestCachedDebtRepository_WriteInvalidatesBeforeReturning(t *testing.T) {
	ctx := context.Background()
	inner := &stubDebtRepo{debts: []domain.DebtItem{{DebtID: "d1"}}}
	repo := cache.NewCachedDebtRepository(inner, time.Minute)

	_, err := repo.ListDebts(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.SaveDebts(ctx, []domain.DebtItem{{DebtID: "d2"}}))

	debts, err := repo.ListDebts(ctx)
	require.NoError(t, err)
	assert.Len(t, debts, 2, "read after write must see the new row")
	assert.Equal(t, 2, inner.listCalls)
}

func TestCachedDebtRepository_MarkPaidInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &stubDebtRepo{debts: []domain.DebtItem{{DebtID: "d1"}}}
	repo := cache.NewCachedDebtRepository(inner, time.Minute)

	_, err := repo.ListDebts(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.MarkDebtPaid(ctx, "d1", time.Now(), "alice"))

	_, err = repo.ListDebts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listCalls)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := cache.NewTTLCache[string](10 * time.Millisecond)
	c.Set("k", "v")

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}
