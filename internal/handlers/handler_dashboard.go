package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
)

// dashboardHandler serves the per-user overview.
type dashboardHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// registerDashboardRoutes registers the dashboard route.
func registerDashboardRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := &dashboardHandler{expenseService: expenseService}
	rg.GET("/dashboard", h.getDashboard)
}

// getDashboard godoc
// @Summary Get the caller's dashboard
// @Description Returns the caller's income mean, unpaid debts and outstanding credits in one response.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardSummary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to build dashboard"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	summary, err := h.expenseService.Summary(c.Request.Context(), username)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to build dashboard", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
