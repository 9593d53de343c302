package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hearthsplit/household_manager_app/internal/apperrors"
	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_manager_app/internal/core/ports/repositories"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/dto"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
)

// settlementService advances debts through unpaid -> paid -> approved.
// Transitions are guarded on current state, so repeating a call with the
// same ids is a no-op for the already-transitioned ones: no duplicate
// archive rows, no re-stamped approvals, no duplicate notifications.
type settlementService struct {
	debtRepo    portsrepo.DebtRepositoryFacade
	archiveRepo portsrepo.ArchiveRepositoryFacade
	notifier    portssvc.Notifier
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	debtRepo portsrepo.DebtRepositoryFacade,
	archiveRepo portsrepo.ArchiveRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.SettlementSvcFacade {
	return &settlementService{
		debtRepo:    debtRepo,
		archiveRepo: archiveRepo,
		notifier:    notifier,
	}
}

// Ensure settlementService implements the portssvc.SettlementSvcFacade interface
var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// MarkPaid transitions each valid debt to paid and appends one archive copy
// with approved=false. Only the debtor may settle their own debt; everything
// else is reported as skipped with a reason.
func (s *settlementService) MarkPaid(ctx context.Context, actor string, debtIDs []string) (*dto.SettlementResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := &dto.SettlementResult{}
	if len(debtIDs) == 0 {
		return result, nil
	}

	found, err := s.debtRepo.FindDebtsByIDs(ctx, debtIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load debts: %w", err)
	}

	now := time.Now().UTC()
	settled := make(map[string]bool, len(debtIDs))
	for _, debtID := range debtIDs {
		debt, ok := found[debtID]
		switch {
		case !ok:
			result.Add(debtID, false, dto.SkipReasonNotFound)
			continue
		case debt.Debtor != actor:
			result.Add(debtID, false, dto.SkipReasonNotDebtor)
			continue
		case debt.Paid || settled[debtID]:
			result.Add(debtID, false, dto.SkipReasonAlreadyPaid)
			continue
		}

		if err := s.debtRepo.MarkDebtPaid(ctx, debtID, now, actor); err != nil {
			logger.Error("Failed to mark debt paid", slog.String("debt_id", debtID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to mark debt %s paid: %w", debtID, err)
		}

		// Archive copy carries the same stamps; approval fields start empty.
		paid := debt
		paid.Paid = true
		paid.PaidAt = &now
		paid.PaidBy = actor
		archived := domain.ArchivedDebtItem{DebtItem: paid}
		if err := s.archiveRepo.SaveArchivedDebt(ctx, archived); err != nil {
			logger.Error("Failed to append archive record", slog.String("debt_id", debtID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to archive debt %s: %w", debtID, err)
		}

		settled[debtID] = true
		result.Add(debtID, true, "")
		dispatchEvent(ctx, s.notifier, domain.Event{
			Kind:         domain.EventPaymentMarked,
			Participants: []string{debt.Uploader},
			Payload: map[string]any{
				"debtID":      debtID,
				"purchaseID":  debt.PurchaseID,
				"description": debt.Description,
				"amountOwed":  debt.AmountOwed.StringFixed(2),
				"paidBy":      actor,
			},
		})
	}

	logger.Info("Mark paid completed",
		slog.String("actor", actor),
		slog.Int("settled", result.DoneCount),
		slog.Int("skipped", result.SkippedCount),
	)
	return result, nil
}

// ApprovePayments stamps approval on each valid archive record. Only the
// original uploader may approve; approval mutates the archive copy only and
// repeating the call never double-notifies.
func (s *settlementService) ApprovePayments(ctx context.Context, actor string, archiveIDs []string) (*dto.SettlementResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := &dto.SettlementResult{}
	if len(archiveIDs) == 0 {
		return result, nil
	}

	found, err := s.archiveRepo.FindArchivedDebtsByIDs(ctx, archiveIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive records: %w", err)
	}

	now := time.Now().UTC()
	approved := make(map[string]bool, len(archiveIDs))
	for _, archiveID := range archiveIDs {
		record, ok := found[archiveID]
		switch {
		case !ok:
			result.Add(archiveID, false, dto.SkipReasonNotFound)
			continue
		case record.Uploader != actor:
			result.Add(archiveID, false, dto.SkipReasonNotUploader)
			continue
		case record.Approved || approved[archiveID]:
			result.Add(archiveID, false, dto.SkipReasonAlreadyApproved)
			continue
		}

		if err := s.archiveRepo.ApproveArchivedDebt(ctx, archiveID, now, actor); err != nil {
			logger.Error("Failed to approve payment", slog.String("archive_id", archiveID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to approve payment %s: %w", archiveID, err)
		}

		approved[archiveID] = true
		result.Add(archiveID, true, "")
		dispatchEvent(ctx, s.notifier, domain.Event{
			Kind:         domain.EventPaymentApproved,
			Participants: []string{record.Debtor},
			Payload: map[string]any{
				"debtID":      archiveID,
				"purchaseID":  record.PurchaseID,
				"description": record.Description,
				"amountOwed":  record.AmountOwed.StringFixed(2),
				"approvedBy":  actor,
			},
		})
	}

	logger.Info("Approve payments completed",
		slog.String("actor", actor),
		slog.Int("approved", result.DoneCount),
		slog.Int("skipped", result.SkippedCount),
	)
	return result, nil
}

// ListPendingApprovals returns archive records awaiting the uploader's
// approval, newest payment first.
func (s *settlementService) ListPendingApprovals(ctx context.Context, uploader string) ([]domain.ArchivedDebtItem, error) {
	archived, err := s.archiveRepo.ListArchivedDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive records: %w", err)
	}

	pending := make([]domain.ArchivedDebtItem, 0)
	for _, record := range archived {
		if record.Uploader == uploader && record.Paid && !record.Approved {
			pending = append(pending, record)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		left, right := pending[i].PaidAt, pending[j].PaidAt
		if left == nil || right == nil {
			return right == nil && left != nil
		}
		return left.After(*right)
	})
	return pending, nil
}

// DeleteExpense removes every active row of one purchase group. Permitted
// only for the original uploader, regardless of the paid state of individual
// rows. Archive records from the group are kept; orphaned settlement history
// is accepted behavior.
func (s *settlementService) DeleteExpense(ctx context.Context, actor string, purchaseID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.debtRepo.FindDebtsByPurchaseID(ctx, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to load purchase group %s: %w", purchaseID, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("purchase %s: %w", purchaseID, apperrors.ErrNotFound)
	}
	if rows[0].Uploader != actor {
		logger.Warn("Delete refused, actor is not the uploader",
			slog.String("purchase_id", purchaseID),
			slog.String("actor", actor),
			slog.String("uploader", rows[0].Uploader),
		)
		return fmt.Errorf("only the uploader may delete an expense: %w", apperrors.ErrForbidden)
	}

	removed, err := s.debtRepo.DeleteDebtsByPurchaseID(ctx, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to delete purchase group %s: %w", purchaseID, err)
	}

	debtors := make([]string, 0, len(rows))
	for _, row := range rows {
		debtors = append(debtors, row.Debtor)
	}
	logger.Info("Expense deleted", slog.String("purchase_id", purchaseID), slog.Int64("removed_rows", removed))
	dispatchEvent(ctx, s.notifier, domain.Event{
		Kind:         domain.EventExpenseDeleted,
		Participants: debtors,
		Payload: map[string]any{
			"purchaseID":  purchaseID,
			"uploader":    actor,
			"description": rows[0].Description,
			"removedRows": removed,
		},
	})
	return nil
}

// DeleteExpenses is the batch form. The authorization policy is the same as
// the single path; refused groups are reported per purchase id instead of
// being silently filtered.
func (s *settlementService) DeleteExpenses(ctx context.Context, actor string, purchaseIDs []string) (*dto.DeleteExpensesResponse, error) {
	response := &dto.DeleteExpensesResponse{}
	for _, purchaseID := range purchaseIDs {
		rows, err := s.debtRepo.FindDebtsByPurchaseID(ctx, purchaseID)
		if err != nil {
			return nil, fmt.Errorf("failed to load purchase group %s: %w", purchaseID, err)
		}
		switch {
		case len(rows) == 0:
			response.Results = append(response.Results, dto.DeleteExpenseResult{
				PurchaseID: purchaseID,
				Status:     dto.DeleteStatusNotFound,
			})
			continue
		case rows[0].Uploader != actor:
			response.Results = append(response.Results, dto.DeleteExpenseResult{
				PurchaseID: purchaseID,
				Status:     dto.DeleteStatusForbidden,
			})
			continue
		}

		if err := s.DeleteExpense(ctx, actor, purchaseID); err != nil {
			return nil, err
		}
		response.DeletedCount++
		response.Results = append(response.Results, dto.DeleteExpenseResult{
			PurchaseID:  purchaseID,
			Status:      dto.DeleteStatusDeleted,
			RemovedRows: int64(len(rows)),
		})
	}
	return response, nil
}
