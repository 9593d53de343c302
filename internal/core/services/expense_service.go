package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hearthsplit/household_manager_app/internal/apperrors"
	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_manager_app/internal/core/ports/repositories"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/dto"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
)

// expenseService is the expense splitter. It computes one debt row per
// qualifying debtor, proportional to income, and appends the rows to the
// ledger in a single batch.
//
// Share rounding is pinned to two decimals, half away from zero
// (decimal.Round). The uploader's own implicit share is the remainder
// amountTotal - sum(shares) and is never materialized as a row.
type expenseService struct {
	incomeSvc portssvc.IncomeReaderSvc
	debtRepo  portsrepo.DebtRepositoryFacade
	receipts  portssvc.ReceiptStore
	notifier  portssvc.Notifier
	roster    []string // recognized usernames, sorted; row creation follows this order
}

// NewExpenseService creates a new ExpenseService. users is the configured
// roster of recognized usernames; a username outside it never participates
// in a split regardless of having income data.
func NewExpenseService(
	incomeSvc portssvc.IncomeReaderSvc,
	debtRepo portsrepo.DebtRepositoryFacade,
	receipts portssvc.ReceiptStore,
	notifier portssvc.Notifier,
	users map[string]string,
) portssvc.ExpenseSvcFacade {
	roster := make([]string, 0, len(users))
	for username := range users {
		roster = append(roster, username)
	}
	sort.Strings(roster)

	return &expenseService{
		incomeSvc: incomeSvc,
		debtRepo:  debtRepo,
		receipts:  receipts,
		notifier:  notifier,
		roster:    roster,
	}
}

// Ensure expenseService implements the portssvc.ExpenseSvcFacade interface
var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense validates the request, generates the debt rows, uploads the
// optional receipt, and persists everything as one batch. Validation failure
// means nothing is written.
func (s *expenseService) CreateExpense(ctx context.Context, uploader string, req dto.CreateExpenseRequest) ([]domain.DebtItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	means, err := s.incomeSvc.ComputeIncomeMeans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute income means: %w", err)
	}

	now := time.Now().UTC()
	debts, err := s.buildDebts(uploader, req, means, now)
	if err != nil {
		return nil, err
	}
	if len(debts) == 0 {
		// "self" policy: uploader bears 100% implicitly, nothing to record.
		logger.Info("Expense kept by uploader, no debts created", slog.String("uploader", uploader))
		return nil, nil
	}

	// Receipt goes on the first debtor row only; a failed upload still lets
	// the expense be created, just without a stored receipt.
	if len(req.Receipt) > 0 {
		debts[0].ReceiptURL = s.storeReceipt(ctx, debts[0].PurchaseID, req.ReceiptName, req.Receipt, req.ReceiptMIME)
	}

	if err := s.debtRepo.SaveDebts(ctx, debts); err != nil {
		logger.Error("Failed to save debts", slog.String("uploader", uploader), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save debts: %w", err)
	}

	logger.Info("Expense created",
		slog.String("purchase_id", debts[0].PurchaseID),
		slog.String("uploader", uploader),
		slog.Int("debt_count", len(debts)),
	)
	s.notifyExpenseCreated(ctx, debts)
	return debts, nil
}

// CreateExpenses applies one sharing policy to several expenses for the same
// uploader. The income means are snapshotted once for the whole batch and
// all generated rows are issued as one combined write; any validation
// failure fails the whole batch before anything is written.
func (s *expenseService) CreateExpenses(ctx context.Context, uploader string, req dto.CreateExpensesRequest) ([]domain.DebtItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Expenses) == 0 {
		return nil, fmt.Errorf("%w: at least one expense is required", apperrors.ErrValidation)
	}

	means, err := s.incomeSvc.ComputeIncomeMeans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute income means: %w", err)
	}

	now := time.Now().UTC()
	var all []domain.DebtItem
	groups := make([][]domain.DebtItem, 0, len(req.Expenses))
	for i, item := range req.Expenses {
		expense := dto.CreateExpenseRequest{
			Description:  item.Description,
			AmountTotal:  item.AmountTotal,
			ShareType:    req.ShareType,
			PurchaseDate: item.PurchaseDate,
		}
		debts, err := s.buildDebts(uploader, expense, means, now)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i+1, err)
		}
		if len(debts) == 0 {
			continue
		}
		all = append(all, debts...)
		groups = append(groups, debts)
	}

	if len(all) == 0 {
		return nil, nil
	}

	if err := s.debtRepo.SaveDebts(ctx, all); err != nil {
		logger.Error("Failed to save debt batch", slog.String("uploader", uploader), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save debts: %w", err)
	}

	logger.Info("Expense batch created",
		slog.String("uploader", uploader),
		slog.Int("expense_count", len(groups)),
		slog.Int("debt_count", len(all)),
	)
	for _, debts := range groups {
		s.notifyExpenseCreated(ctx, debts)
	}
	return all, nil
}

// buildDebts resolves the participant set for the policy and emits one debt
// row per qualifying debtor. It never writes; callers persist the result.
func (s *expenseService) buildDebts(uploader string, req dto.CreateExpenseRequest, means map[string]decimal.Decimal, now time.Time) ([]domain.DebtItem, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if req.AmountTotal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !req.ShareType.IsValid() {
		return nil, fmt.Errorf("%w: unknown share type %q", apperrors.ErrValidation, req.ShareType)
	}
	if len(means) == 0 {
		return nil, apperrors.ErrNoIncomeData
	}

	if req.ShareType == domain.ShareSelf {
		return nil, nil
	}

	// Participants: roster order, restricted to users with a known income
	// mean. For relative_others the uploader is dropped from the set (and
	// therefore from the denominator); for relative_all the uploader stays
	// in the denominator but never receives a row.
	participants := make([]string, 0, len(s.roster))
	for _, username := range s.roster {
		if _, ok := means[username]; !ok {
			continue
		}
		if req.ShareType == domain.ShareRelativeOthers && username == uploader {
			continue
		}
		participants = append(participants, username)
	}

	debtors := make([]string, 0, len(participants))
	for _, username := range participants {
		if username != uploader {
			debtors = append(debtors, username)
		}
	}
	if len(debtors) == 0 {
		return nil, apperrors.ErrNoParticipants
	}

	denom := decimal.Zero
	for _, username := range participants {
		denom = denom.Add(means[username])
	}
	if denom.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidIncome
	}

	purchaseID := uuid.NewString()
	purchaseDate := now
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	debts := make([]domain.DebtItem, 0, len(debtors))
	for _, debtor := range debtors {
		share := req.AmountTotal.Mul(means[debtor]).Div(denom).Round(2)
		debts = append(debts, domain.DebtItem{
			DebtID:       uuid.NewString(),
			PurchaseID:   purchaseID,
			CreatedAt:    now,
			PurchaseDate: purchaseDate,
			Uploader:     uploader,
			Debtor:       debtor,
			Description:  strings.TrimSpace(req.Description),
			AmountTotal:  req.AmountTotal,
			AmountOwed:   share,
			ShareType:    req.ShareType,
		})
	}
	return debts, nil
}

// storeReceipt uploads the receipt bytes and returns the retrievable URL, or
// an empty string when the store is unconfigured or the upload fails.
func (s *expenseService) storeReceipt(ctx context.Context, purchaseID, name string, data []byte, mimeType string) string {
	if s.receipts == nil {
		return ""
	}
	url, err := s.receipts.Store(ctx, fmt.Sprintf("%s_%s", purchaseID, name), data, mimeType)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Receipt upload failed, expense created without stored receipt",
			slog.String("purchase_id", purchaseID), slog.String("error", err.Error()))
		return ""
	}
	return url
}

func (s *expenseService) notifyExpenseCreated(ctx context.Context, debts []domain.DebtItem) {
	if len(debts) == 0 {
		return
	}
	shares := make(map[string]string, len(debts))
	debtors := make([]string, 0, len(debts))
	for _, debt := range debts {
		debtors = append(debtors, debt.Debtor)
		shares[debt.Debtor] = debt.AmountOwed.StringFixed(2)
	}
	dispatchEvent(ctx, s.notifier, domain.Event{
		Kind:         domain.EventExpenseCreated,
		Participants: debtors,
		Payload: map[string]any{
			"purchaseID":  debts[0].PurchaseID,
			"uploader":    debts[0].Uploader,
			"description": debts[0].Description,
			"amountTotal": debts[0].AmountTotal.StringFixed(2),
			"shares":      shares,
		},
	})
}

// ListDebtsForUser returns the user's unpaid debts, newest first.
func (s *expenseService) ListDebtsForUser(ctx context.Context, username string) ([]domain.DebtItem, error) {
	return s.listUnpaid(ctx, func(d domain.DebtItem) bool { return d.Debtor == username })
}

// ListCreditsForUser returns the unpaid debts owed to the user, newest first.
func (s *expenseService) ListCreditsForUser(ctx context.Context, username string) ([]domain.DebtItem, error) {
	return s.listUnpaid(ctx, func(d domain.DebtItem) bool { return d.Uploader == username })
}

func (s *expenseService) listUnpaid(ctx context.Context, match func(domain.DebtItem) bool) ([]domain.DebtItem, error) {
	debts, err := s.debtRepo.ListDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	matched := make([]domain.DebtItem, 0)
	for _, debt := range debts {
		if !debt.Paid && match(debt) {
			matched = append(matched, debt)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

// Summary assembles the dashboard overview for one user.
func (s *expenseService) Summary(ctx context.Context, username string) (*dto.DashboardSummary, error) {
	means, err := s.incomeSvc.ComputeIncomeMeans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute income means: %w", err)
	}

	debts, err := s.ListDebtsForUser(ctx, username)
	if err != nil {
		return nil, err
	}
	credits, err := s.ListCreditsForUser(ctx, username)
	if err != nil {
		return nil, err
	}

	totalOwed := decimal.Zero
	for _, debt := range debts {
		totalOwed = totalOwed.Add(debt.AmountOwed)
	}
	totalOwedToMe := decimal.Zero
	for _, credit := range credits {
		totalOwedToMe = totalOwedToMe.Add(credit.AmountOwed)
	}

	return &dto.DashboardSummary{
		Username:      username,
		IncomeMean:    means[username],
		TotalOwed:     totalOwed,
		TotalOwedToMe: totalOwedToMe,
		Debts:         dto.ToDebtItemResponses(debts),
		Credits:       dto.ToDebtItemResponses(credits),
	}, nil
}
