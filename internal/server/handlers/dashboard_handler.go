package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/service/dashboard"
)

// DashboardHandler serves the dashboard figures.
type DashboardHandler struct {
	svc    *dashboard.Service
	now    func() time.Time
	logger *zap.Logger
}

// NewDashboardHandler constructs the dashboard endpoint.
func NewDashboardHandler(svc *dashboard.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, now: time.Now, logger: logger}
}

// Summary returns the current dashboard figures.
func (h *DashboardHandler) Summary(c *gin.Context) {
	stats, err := h.svc.Summary(c.Request.Context(), h.now())
	if err != nil {
		handleError(c, h.logger, "Dashboard", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
