package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hearthsplit/household_manager_app/internal/apperrors"
	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/dto"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
)

// maxReceiptSize caps receipt uploads at 10 MiB.
const maxReceiptSize = 10 << 20

// expenseHandler handles HTTP requests for expenses and the debt lists
// derived from them.
type expenseHandler struct {
	expenseService    portssvc.ExpenseSvcFacade
	settlementService portssvc.SettlementSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade, ss portssvc.SettlementSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es, settlementService: ss}
}

// RegisterExpenseRoutes registers routes related to expenses, debts and credits.
func RegisterExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade, settlementService portssvc.SettlementSvcFacade) {
	h := newExpenseHandler(expenseService, settlementService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.POST("/batch", h.createExpenses)
		expenses.DELETE("/:purchaseID", h.deleteExpense)
		expenses.DELETE("", h.deleteExpenses)
	}
	rg.GET("/debts", h.listDebts)
	rg.GET("/credits", h.listCredits)
}

// writeSplitError maps splitter failures onto HTTP statuses.
func writeSplitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNoIncomeData),
		errors.Is(err, apperrors.ErrNoParticipants),
		errors.Is(err, apperrors.ErrInvalidIncome):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to create expense", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create expense"})
	}
}

// createExpense godoc
// @Summary Create an expense
// @Description Splits one expense into income-proportional debts. Multipart form with an optional receipt file.
// @Tags expenses
// @Accept mpfd
// @Produce json
// @Param description formData string true "What was bought"
// @Param amountTotal formData string true "Total amount, decimal string"
// @Param shareType formData string true "self, relative_all or relative_others"
// @Param purchaseDate formData string false "RFC 3339 purchase date"
// @Param receipt formData file false "Receipt image"
// @Success 201 {object} dto.CreateExpenseResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "No usable income data or participants"
// @Failure 500 {object} ErrorResponse "Failed to create expense"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	amountTotal, err := decimal.NewFromString(c.PostForm("amountTotal"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amountTotal must be a decimal number"})
		return
	}

	req := dto.CreateExpenseRequest{
		Description: c.PostForm("description"),
		AmountTotal: amountTotal,
		ShareType:   domain.ShareType(c.PostForm("shareType")),
	}

	if raw := c.PostForm("purchaseDate"); raw != "" {
		purchaseDate, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "purchaseDate must be RFC 3339"})
			return
		}
		req.PurchaseDate = &purchaseDate
	}

	if fileHeader, err := c.FormFile("receipt"); err == nil {
		if fileHeader.Size > maxReceiptSize {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Receipt too large"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			logger.Warn("Failed to open receipt upload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unreadable receipt upload"})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unreadable receipt upload"})
			return
		}
		req.Receipt = data
		req.ReceiptName = fileHeader.Filename
		req.ReceiptMIME = fileHeader.Header.Get("Content-Type")
	}

	debts, err := h.expenseService.CreateExpense(c.Request.Context(), username, req)
	if err != nil {
		writeSplitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateExpenseResponse{
		Debts: dto.ToDebtItemResponses(debts),
		Count: len(debts),
	})
}

// createExpenses godoc
// @Summary Create several expenses at once
// @Description Applies one sharing policy to every expense in the batch; all rows are written together or not at all.
// @Tags expenses
// @Accept json
// @Produce json
// @Param batch body dto.CreateExpensesRequest true "Expenses sharing one policy"
// @Success 201 {object} dto.CreateExpenseResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "No usable income data or participants"
// @Failure 500 {object} ErrorResponse "Failed to create expenses"
// @Security BearerAuth
// @Router /expenses/batch [post]
func (h *expenseHandler) createExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	debts, err := h.expenseService.CreateExpenses(c.Request.Context(), username, req)
	if err != nil {
		writeSplitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateExpenseResponse{
		Debts: dto.ToDebtItemResponses(debts),
		Count: len(debts),
	})
}

// listDebts godoc
// @Summary List the caller's unpaid debts
// @Tags debts
// @Produce json
// @Success 200 {object} dto.ListDebtsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list debts"
// @Security BearerAuth
// @Router /debts [get]
func (h *expenseHandler) listDebts(c *gin.Context) {
	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	debts, err := h.expenseService.ListDebtsForUser(c.Request.Context(), username)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list debts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list debts"})
		return
	}

	c.JSON(http.StatusOK, dto.ListDebtsResponse{Debts: dto.ToDebtItemResponses(debts)})
}

// listCredits godoc
// @Summary List unpaid debts owed to the caller
// @Tags debts
// @Produce json
// @Success 200 {object} dto.ListDebtsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list credits"
// @Security BearerAuth
// @Router /credits [get]
func (h *expenseHandler) listCredits(c *gin.Context) {
	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	credits, err := h.expenseService.ListCreditsForUser(c.Request.Context(), username)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list credits", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list credits"})
		return
	}

	c.JSON(http.StatusOK, dto.ListDebtsResponse{Debts: dto.ToDebtItemResponses(credits)})
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description Removes every active debt row of the purchase group. Only the uploader may delete.
// @Tags expenses
// @Produce json
// @Param purchaseID path string true "Purchase group id"
// @Success 204
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Caller is not the uploader"
// @Failure 404 {object} ErrorResponse "Purchase group not found"
// @Failure 500 {object} ErrorResponse "Failed to delete expense"
// @Security BearerAuth
// @Router /expenses/{purchaseID} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	purchaseID := c.Param("purchaseID")
	err := h.settlementService.DeleteExpense(c.Request.Context(), username, purchaseID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Expense not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only the uploader may delete an expense"})
		default:
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to delete expense", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete expense"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// deleteExpenses godoc
// @Summary Delete several expenses
// @Description Batch delete with a per-purchase outcome; groups the caller did not upload are reported as forbidden.
// @Tags expenses
// @Accept json
// @Produce json
// @Param purchases body dto.DeleteExpensesRequest true "Purchase group ids"
// @Success 200 {object} dto.DeleteExpensesResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to delete expenses"
// @Security BearerAuth
// @Router /expenses [delete]
func (h *expenseHandler) deleteExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.DeleteExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DeleteExpenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	response, err := h.settlementService.DeleteExpenses(c.Request.Context(), username, req.PurchaseIDs)
	if err != nil {
		logger.Error("Failed to delete expenses", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete expenses"})
		return
	}

	c.JSON(http.StatusOK, response)
}
