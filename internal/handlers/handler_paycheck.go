package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hearthsplit/household_manager_app/internal/apperrors"
	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/dto"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
)

// paycheckHandler handles HTTP requests related to paychecks and income.
type paycheckHandler struct {
	paycheckService portssvc.PaycheckSvcFacade
}

func newPaycheckHandler(ps portssvc.PaycheckSvcFacade) *paycheckHandler {
	return &paycheckHandler{paycheckService: ps}
}

// registerPaycheckRoutes registers routes related to paychecks and income means.
func registerPaycheckRoutes(rg *gin.RouterGroup, paycheckService portssvc.PaycheckSvcFacade) {
	h := newPaycheckHandler(paycheckService)

	paychecks := rg.Group("/paychecks")
	{
		paychecks.PUT("", h.upsertPaycheck)
		paychecks.GET("/me", h.getOwnPaycheck)
	}
	rg.GET("/incomes", h.getIncomeMeans)
}

// upsertPaycheck godoc
// @Summary Store the caller's paychecks
// @Description Replaces the caller's three most recent pay amounts and recomputes the average.
// @Tags paychecks
// @Accept json
// @Produce json
// @Param paycheck body dto.UpsertPaycheckRequest true "Raw pay amounts"
// @Success 200 {object} dto.PaycheckResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to save paycheck"
// @Security BearerAuth
// @Router /paychecks [put]
func (h *paycheckHandler) upsertPaycheck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpsertPaycheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpsertPaycheck", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	paycheck, err := h.paycheckService.UpsertPaycheck(c.Request.Context(), username, req.Pay1, req.Pay2, req.Pay3)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to upsert paycheck", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save paycheck"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaycheckResponse(paycheck))
}

// getOwnPaycheck godoc
// @Summary Get the caller's stored paychecks
// @Tags paychecks
// @Produce json
// @Success 200 {object} dto.PaycheckResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "No paycheck stored yet"
// @Failure 500 {object} ErrorResponse "Failed to retrieve paycheck"
// @Security BearerAuth
// @Router /paychecks/me [get]
func (h *paycheckHandler) getOwnPaycheck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	paycheck, err := h.paycheckService.GetPaycheck(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No paycheck stored yet"})
			return
		}
		logger.Error("Failed to get paycheck", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve paycheck"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaycheckResponse(paycheck))
}

// getIncomeMeans godoc
// @Summary Get current income means
// @Description Returns the average income per participating user, as used for sharing.
// @Tags paychecks
// @Produce json
// @Success 200 {object} dto.IncomeMeansResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to compute income means"
// @Security BearerAuth
// @Router /incomes [get]
func (h *paycheckHandler) getIncomeMeans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	means, err := h.paycheckService.ComputeIncomeMeans(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute income means", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute income means"})
		return
	}

	c.JSON(http.StatusOK, dto.IncomeMeansResponse{Means: means})
}
