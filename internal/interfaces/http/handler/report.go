package handler

import (
	"context"
	"time"

	"github.com/batchledger/backend/internal/domain/report"
	"github.com/batchledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportGenerator is the application surface the report endpoints call.
// reportapp.ReportService implements it.
type ReportGenerator interface {
	GetBatchUtilization(ctx context.Context) ([]report.BatchUtilizationItem, error)
	GetCustomerBalances(ctx context.Context, asOf *time.Time) ([]report.CustomerBalanceItem, error)
	GetRevenueByProductType(ctx context.Context) ([]report.ProductRevenueItem, error)
	GetCashFlowTimeline(ctx context.Context) (*report.CashFlowReport, error)
	GetOperationalOrderTracking(ctx context.Context, asOf *time.Time) ([]report.OrderTrackingItem, error)
	GetCustomerStatement(ctx context.Context, customerID uuid.UUID) (*report.CustomerStatement, error)
}

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reports ReportGenerator
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports ReportGenerator) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// AsOfQuery pins the reporting date for date-sensitive reports
type AsOfQuery struct {
	AsOf string `form:"as_of" binding:"omitempty,dateonly" example:"2024-07-15"`
}

// bindAsOf returns nil when as_of is absent. It writes the 400 response itself
// and reports false when the parameter is malformed.
func (h *ReportHandler) bindAsOf(c *gin.Context) (*time.Time, bool) {
	var q AsOfQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return nil, false
	}
	if q.AsOf == "" {
		return nil, true
	}
	asOf, err := time.ParseInLocation(middleware.DateOnlyLayout, q.AsOf, time.UTC)
	if err != nil {
		h.BadRequest(c, "as_of must be a date in YYYY-MM-DD format")
		return nil, false
	}
	return &asOf, true
}

// GetBatchUtilization godoc
// @Summary      Batch utilization
// @Description  Orders, quantity, revenue and remaining stock per batch, newest batch first
// @Tags         reporting
// @Produce      json
// @Success      200 {object} dto.Response{data=[]report.BatchUtilizationItem}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reporting/batch-utilization [get]
func (h *ReportHandler) GetBatchUtilization(c *gin.Context) {
	items, err := h.reports.GetBatchUtilization(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetCustomerBalances godoc
// @Summary      Customer balances with aging
// @Tags         reporting
// @Produce      json
// @Param        as_of query string false "Reporting date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} dto.Response{data=[]report.CustomerBalanceItem}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reporting/customer-balances [get]
func (h *ReportHandler) GetCustomerBalances(c *gin.Context) {
	asOf, ok := h.bindAsOf(c)
	if !ok {
		return
	}
	items, err := h.reports.GetCustomerBalances(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetRevenueByProductType godoc
// @Summary      Revenue by product type
// @Tags         reporting
// @Produce      json
// @Success      200 {object} dto.Response{data=[]report.ProductRevenueItem}
// @Router       /reporting/revenue-by-product-type [get]
func (h *ReportHandler) GetRevenueByProductType(c *gin.Context) {
	items, err := h.reports.GetRevenueByProductType(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetCashFlowTimeline godoc
// @Summary      Daily charges versus payments
// @Tags         reporting
// @Produce      json
// @Success      200 {object} dto.Response{data=report.CashFlowReport}
// @Router       /reporting/cash-flow [get]
func (h *ReportHandler) GetCashFlowTimeline(c *gin.Context) {
	timeline, err := h.reports.GetCashFlowTimeline(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, timeline)
}

// GetOperationalOrderTracking godoc
// @Summary      Order lines with due-date status
// @Tags         reporting
// @Produce      json
// @Param        as_of query string false "Reporting date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} dto.Response{data=[]report.OrderTrackingItem}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reporting/order-tracking [get]
func (h *ReportHandler) GetOperationalOrderTracking(c *gin.Context) {
	asOf, ok := h.bindAsOf(c)
	if !ok {
		return
	}
	items, err := h.reports.GetOperationalOrderTracking(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetCustomerStatement godoc
// @Summary      Statement for one customer
// @Tags         reporting
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} dto.Response{data=report.CustomerStatement}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reporting/customers/{id}/statement [get]
func (h *ReportHandler) GetCustomerStatement(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	statement, err := h.reports.GetCustomerStatement(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statement)
}
