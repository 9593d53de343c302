package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/dto"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
)

// settlementHandler handles HTTP requests for the settlement lifecycle.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

// RegisterSettlementRoutes registers routes for paying and approving debts.
func RegisterSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	settlements := rg.Group("/settlements")
	{
		settlements.POST("/pay", h.markPaid)
		settlements.POST("/approve", h.approvePayments)
		settlements.GET("/approvals", h.listPendingApprovals)
	}
}

// markPaid godoc
// @Summary Mark debts as paid
// @Description Marks the caller's selected debts as paid, pending the uploader's approval. Ids that cannot be settled are reported with a reason.
// @Tags settlements
// @Accept json
// @Produce json
// @Param debts body dto.MarkPaidRequest true "Debt ids to settle"
// @Success 200 {object} dto.SettlementResult
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to mark debts paid"
// @Security BearerAuth
// @Router /settlements/pay [post]
func (h *settlementHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MarkPaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.settlementService.MarkPaid(c.Request.Context(), username, req.DebtIDs)
	if err != nil {
		logger.Error("Failed to mark debts paid", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to mark debts paid"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// approvePayments godoc
// @Summary Approve received payments
// @Description Approves payments on debts the caller uploaded. Already-approved ids are skipped without re-notifying.
// @Tags settlements
// @Accept json
// @Produce json
// @Param approvals body dto.ApprovePaymentsRequest true "Archive ids to approve"
// @Success 200 {object} dto.SettlementResult
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to approve payments"
// @Security BearerAuth
// @Router /settlements/approve [post]
func (h *settlementHandler) approvePayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ApprovePaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApprovePayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.settlementService.ApprovePayments(c.Request.Context(), username, req.ArchiveIDs)
	if err != nil {
		logger.Error("Failed to approve payments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to approve payments"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// listPendingApprovals godoc
// @Summary List payments awaiting the caller's approval
// @Tags settlements
// @Produce json
// @Success 200 {object} dto.ListArchivedDebtsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list pending approvals"
// @Security BearerAuth
// @Router /settlements/approvals [get]
func (h *settlementHandler) listPendingApprovals(c *gin.Context) {
	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	pending, err := h.settlementService.ListPendingApprovals(c.Request.Context(), username)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list pending approvals", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list pending approvals"})
		return
	}

	archived := make([]dto.ArchivedDebtResponse, len(pending))
	for i := range pending {
		archived[i] = dto.ToArchivedDebtResponse(&pending[i])
	}
	c.JSON(http.StatusOK, dto.ListArchivedDebtsResponse{Archived: archived})
}
