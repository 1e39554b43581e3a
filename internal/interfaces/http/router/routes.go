package router

import (
	"github.com/batchledger/backend/internal/interfaces/http/handler"
)

// ReportingRoutes mounts the report endpoints under /reporting
func ReportingRoutes(h *handler.ReportHandler) *Area {
	return NewArea("reporting", "/reporting").
		Get("/batch-utilization", h.GetBatchUtilization).
		Get("/customer-balances", h.GetCustomerBalances).
		Get("/revenue-by-product-type", h.GetRevenueByProductType).
		Get("/cash-flow", h.GetCashFlowTimeline).
		Get("/order-tracking", h.GetOperationalOrderTracking).
		Get("/customers/:id/statement", h.GetCustomerStatement)
}

// SystemRoutes mounts /system/ping; /health is registered on the engine root
func SystemRoutes(h *handler.SystemHandler) *Area {
	return NewArea("system", "/system").
		Get("/ping", h.Ping)
}
