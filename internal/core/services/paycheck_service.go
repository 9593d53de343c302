package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/hearthsplit/household_manager_app/internal/apperrors"
	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_manager_app/internal/core/ports/repositories"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
)

// paycheckService derives income means from stored paychecks and maintains
// the per-user paycheck records.
type paycheckService struct {
	paycheckRepo portsrepo.PaycheckRepositoryFacade
}

// NewPaycheckService creates a new PaycheckService.
func NewPaycheckService(paycheckRepo portsrepo.PaycheckRepositoryFacade) portssvc.PaycheckSvcFacade {
	return &paycheckService{paycheckRepo: paycheckRepo}
}

// Ensure paycheckService implements the portssvc.PaycheckSvcFacade interface
var _ portssvc.PaycheckSvcFacade = (*paycheckService)(nil)

// ComputeIncomeMeans reads every paycheck record and returns the mean of the
// present pay amounts per user. Users with an empty username or without a
// single numeric paycheck are excluded. Read-only and idempotent.
func (s *paycheckService) ComputeIncomeMeans(ctx context.Context) (map[string]decimal.Decimal, error) {
	paychecks, err := s.paycheckRepo.ListPaychecks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list paychecks: %w", err)
	}

	means := make(map[string]decimal.Decimal, len(paychecks))
	for _, paycheck := range paychecks {
		if paycheck.Username == "" {
			continue
		}
		mean, ok := paycheck.Mean()
		if !ok {
			continue
		}
		means[paycheck.Username] = mean
	}
	return means, nil
}

// UpsertPaycheck stores the three raw amounts and the derived average,
// replacing any previous record for the user.
func (s *paycheckService) UpsertPaycheck(ctx context.Context, username string, pay1, pay2, pay3 decimal.Decimal) (*domain.Paycheck, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}

	paycheck := domain.Paycheck{
		Username: username,
		Pay1:     &pay1,
		Pay2:     &pay2,
		Pay3:     &pay3,
	}
	mean, _ := paycheck.Mean()
	paycheck.Average = &mean

	if err := s.paycheckRepo.UpsertPaycheck(ctx, paycheck); err != nil {
		logger.Error("Failed to upsert paycheck", slog.String("username", username), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save paycheck: %w", err)
	}

	logger.Info("Paycheck saved", slog.String("username", username))
	return &paycheck, nil
}

// GetPaycheck retrieves the stored paycheck record for one user.
func (s *paycheckService) GetPaycheck(ctx context.Context, username string) (*domain.Paycheck, error) {
	paycheck, err := s.paycheckRepo.FindPaycheckByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find paycheck", slog.String("username", username), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to find paycheck for %s: %w", username, err)
	}
	return paycheck, nil
}
