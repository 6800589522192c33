package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexledger/lexledger-api/internal/service"
	"github.com/lexledger/lexledger-api/pkg/response"
)

// DashboardHandler serves the admin dashboard summary.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Stats godoc
// @Summary Admin dashboard statistics
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param period query string false "Creation window for new-record counts (7d, 30d, 90d, 1y)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	period := c.DefaultQuery("period", service.DefaultDashboardPeriod)
	stats, err := h.service.Stats(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
