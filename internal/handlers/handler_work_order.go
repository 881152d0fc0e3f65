package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/altanet-mx/crm_backend/internal/apperrors"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/dto"
	"github.com/altanet-mx/crm_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const unavailableMessage = "service temporarily unavailable, please retry later"

// workOrderHandler handles HTTP requests related to work-order approval.
type workOrderHandler struct {
	approvalService portssvc.WorkOrderApprovalSvc
}

// registerWorkOrderRoutes registers the billing engine's exposed operations.
func registerWorkOrderRoutes(rg *gin.RouterGroup, approvalService portssvc.WorkOrderApprovalSvc) {
	h := &workOrderHandler{approvalService: approvalService}

	workOrders := rg.Group("/work-orders")
	{
		workOrders.POST("/:folio/approve", h.approveWorkOrder)
		workOrders.POST("/:folio/receipt", h.createWorkOrderReceipt)
	}
}

// approveWorkOrder marks a work order approved and reconciles the billing
// owed for the elapsed period. Best-effort failures come back inside the
// response body, not as an HTTP error.
func (h *workOrderHandler) approveWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	folio, err := strconv.Atoi(c.Param("folio"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folio must be an integer"})
		return
	}

	// The body is optional; an absent one acts for the system user.
	var req dto.ApproveWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if req.User == "" {
		req.User = "system"
	}

	logger.Info("Received work order approval request", slog.Int("folio", folio), slog.String("acting_user", req.User))

	result, err := h.approvalService.ApproveWorkOrder(c.Request.Context(), folio, req.User)
	if err != nil {
		respondWithError(c, logger, err, "Failed to approve work order")
		return
	}

	logger.Info("Work order approved",
		slog.Int("folio", folio),
		slog.Int("collected_errors", len(result.Errors)))
	c.JSON(http.StatusOK, result)
}

// createWorkOrderReceipt creates the flat one-time receipt for a work order's
// declared charge, without billing-period reconciliation.
func (h *workOrderHandler) createWorkOrderReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	folio, err := strconv.Atoi(c.Param("folio"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folio must be an integer"})
		return
	}

	var req dto.ApproveWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if req.User == "" {
		req.User = "system"
	}

	receipt, err := h.approvalService.CreateWorkOrderReceipt(c.Request.Context(), folio, req.User)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create work order receipt")
		return
	}

	logger.Info("Work order receipt created", slog.Int("folio", folio), slog.String("total", receipt.Total.StringFixed(2)))
	c.JSON(http.StatusCreated, dto.ToReceiptResponse(receipt))
}

// respondWithError maps the two error tiers onto HTTP statuses. Upstream
// unavailability gets its own retry-later message, distinct from generic
// failures.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, logMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": unavailableMessage})
	default:
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
