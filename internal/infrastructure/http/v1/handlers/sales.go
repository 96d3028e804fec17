package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/id"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain/sales/order"
	"fowlpos/internal/domain/sales/receipt"
	"fowlpos/internal/domain/sales/settlement"
	"fowlpos/internal/infrastructure/http/v1/dto"
)

const dateLayout = "2006-01-02"

// SalesHandler serves settlement and receipt endpoints.
type SalesHandler struct {
	*BaseHandler
	settle   *settlement.Service
	orders   *order.Service
	receipts *receipt.Service
}

// NewSalesHandler creates a sales handler.
func NewSalesHandler(settle *settlement.Service, orders *order.Service, receipts *receipt.Service) *SalesHandler {
	return &SalesHandler{
		BaseHandler: NewBaseHandler(),
		settle:      settle,
		orders:      orders,
		receipts:    receipts,
	}
}

// RegisterRoutes registers sales routes.
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/sales")
	{
		g.POST("/orders", h.SettleOrder)
		g.GET("/orders/:id", h.GetOrder)
		g.GET("/receipts", h.ListReceipts)
		g.GET("/receipts/:id", h.GetReceipt)
		g.GET("/receipts/by-order/:orderId", h.GetReceiptByOrder)
		g.POST("/receipts/:id/reprint", h.ReprintReceipt)
	}
}

// SettleOrder handles POST /sales/orders
func (h *SalesHandler) SettleOrder(c *gin.Context) {
	var req dto.SettleOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	engineReq, err := h.toEngineRequest(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.settle.Settle(c.Request.Context(), engineReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.NewSettleOrderResponse(result))
}

// toEngineRequest converts the wire request into an engine request. The
// business date defaults to today here, at the boundary: the engine
// itself never consults the clock for dates.
func (h *SalesHandler) toEngineRequest(req dto.SettleOrderRequest) (settlement.SettleRequest, error) {
	var out settlement.SettleRequest

	customerID, err := id.Parse(req.CustomerID)
	if err != nil {
		return out, apperror.NewValidation("invalid customer id").WithDetail("customerId", req.CustomerID)
	}

	date := time.Now().UTC()
	if req.Date != "" {
		date, err = time.Parse(dateLayout, req.Date)
		if err != nil {
			return out, apperror.NewValidation("invalid date, expected YYYY-MM-DD").WithDetail("date", req.Date)
		}
	}

	total, err := types.NewMoneyFromString(req.Total)
	if err != nil {
		return out, apperror.NewValidation("invalid total").WithDetail("total", req.Total)
	}

	paymentAmount, err := types.NewMoneyFromString(req.PaymentAmount)
	if err != nil {
		return out, apperror.NewValidation("invalid payment amount").WithDetail("paymentAmount", req.PaymentAmount)
	}

	lines := make([]settlement.LineRequest, 0, len(req.Lines))
	for i, l := range req.Lines {
		productID, err := id.Parse(l.ProductID)
		if err != nil {
			return out, apperror.NewValidation("invalid product id").
				WithDetail("lineNo", i+1).
				WithDetail("productId", l.ProductID)
		}

		quantity, err := types.NewMoneyFromString(l.Quantity)
		if err != nil {
			return out, apperror.NewValidation("invalid quantity").
				WithDetail("lineNo", i+1).
				WithDetail("quantity", l.Quantity)
		}

		factor := types.ZeroMoney()
		if l.Factor != "" {
			factor, err = types.NewMoneyFromString(l.Factor)
			if err != nil {
				return out, apperror.NewValidation("invalid factor").
					WithDetail("lineNo", i+1).
					WithDetail("factor", l.Factor)
			}
		}

		lines = append(lines, settlement.LineRequest{
			ProductID: productID,
			Quantity:  quantity,
			Factor:    factor,
		})
	}

	out = settlement.SettleRequest{
		CustomerID:    customerID,
		Date:          date,
		Lines:         lines,
		ClientTotal:   total,
		PaymentAmount: paymentAmount,
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
		PaymentStatus: order.PaymentStatus(req.PaymentStatus),
	}
	return out, nil
}

// GetOrder handles GET /sales/orders/:id
func (h *SalesHandler) GetOrder(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	o, items, err := h.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.OrderResponse{Order: o, Items: items})
}

// GetReceipt handles GET /sales/receipts/:id
func (h *SalesHandler) GetReceipt(c *gin.Context) {
	receiptID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rc, err := h.receipts.GetByID(c.Request.Context(), receiptID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rc)
}

// GetReceiptByOrder handles GET /sales/receipts/by-order/:orderId
func (h *SalesHandler) GetReceiptByOrder(c *gin.Context) {
	orderID, ok := h.ParseID(c, "orderId")
	if !ok {
		return
	}

	rc, err := h.receipts.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rc)
}

// ListReceipts handles GET /sales/receipts?customerId=
func (h *SalesHandler) ListReceipts(c *gin.Context) {
	customerID, err := id.Parse(c.Query("customerId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("customerId query parameter is required").
			WithDetail("customerId", c.Query("customerId")))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 20)
	offset := h.ParseIntQuery(c, "offset", 0)

	receipts, err := h.receipts.ListByCustomer(c.Request.Context(), customerID, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": receipts})
}

// ReprintReceipt handles POST /sales/receipts/:id/reprint
func (h *SalesHandler) ReprintReceipt(c *gin.Context) {
	receiptID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rc, err := h.receipts.Reprint(c.Request.Context(), receiptID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rc)
}
