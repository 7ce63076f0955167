package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/domain/settlement"
	"github.com/mamadbah2/ricemill/internal/export"
	"github.com/mamadbah2/ricemill/internal/repository"
	"github.com/mamadbah2/ricemill/internal/service/lots"
	"github.com/mamadbah2/ricemill/internal/service/populate"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LotsHandler serves the lot-specific settlement and export endpoints.
type LotsHandler struct {
	lots     *lots.Service
	populate *populate.Service
	now      func() time.Time
	logger   *zap.Logger
}

// NewLotsHandler constructs the lot endpoints.
func NewLotsHandler(lotSvc *lots.Service, populator *populate.Service, logger *zap.Logger) *LotsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LotsHandler{lots: lotSvc, populate: populator, now: time.Now, logger: logger}
}

// Register mounts the endpoints on the lots group.
func (h *LotsHandler) Register(group *gin.RouterGroup) {
	group.GET("/export.xlsx", h.ExportLedger)
	group.GET("/:id/settlement", h.Settlement)
	group.GET("/:id/slip.pdf", h.Slip)
}

// Settlement returns the itemised settlement of one lot.
func (h *LotsHandler) Settlement(c *gin.Context) {
	b, err := h.lots.Settlement(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, lots.ErrNoNetAmount) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		handleError(c, h.logger, "Lot", "settle", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Slip renders the settlement slip of one lot as a PDF.
func (h *LotsHandler) Slip(c *gin.Context) {
	ctx := c.Request.Context()

	lot, err := h.lots.Get(ctx, c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Lot", "render", err)
		return
	}
	views, err := h.populate.Lots(ctx, []*models.Lot{lot})
	if err != nil {
		handleError(c, h.logger, "Lot", "render", err)
		return
	}

	var breakdown *settlement.Breakdown
	if b, ok := settlement.Compute(*lot); ok {
		breakdown = &b
	}

	data, err := export.SettlementSlip(views[0], breakdown)
	if err != nil {
		handleError(c, h.logger, "Lot", "render", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"lot-%s.pdf\"", lot.LotNo))
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportLedger returns every lot as an Excel workbook.
func (h *LotsHandler) ExportLedger(c *gin.Context) {
	ctx := c.Request.Context()

	all, err := h.lots.List(ctx, repository.ListOptions{})
	if err != nil {
		handleError(c, h.logger, "Lot", "export", err)
		return
	}
	views, err := h.populate.Lots(ctx, all)
	if err != nil {
		handleError(c, h.logger, "Lot", "export", err)
		return
	}

	now := h.now()
	data, err := export.ExcelLedger(views, now)
	if err != nil {
		handleError(c, h.logger, "Lot", "export", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"lots-%s.xlsx\"", now.Format("20060102")))
	c.Data(http.StatusOK, xlsxContentType, data)
}
