package handlers

import (
	"github.com/gin-gonic/gin"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain"
	"fowlpos/internal/domain/catalogs/customer"
	"fowlpos/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves customer ledger maintenance endpoints.
type CustomerHandler struct {
	*BaseHandler
	svc *customer.Service
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(svc *customer.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: NewBaseHandler(), svc: svc}
}

// RegisterRoutes registers customer routes. Creating a ledger entry is a
// counter operation; deleting one is manager work.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup, manage gin.HandlerFunc) {
	g := rg.Group("/catalog/customers")
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/:id", h.GetByID)
	}
	w := g.Group("", manage)
	{
		w.DELETE("/:id", h.Delete)
	}
}

// List handles GET /catalog/customers
func (h *CustomerHandler) List(c *gin.Context) {
	var pagination dto.PaginationRequest
	if !h.BindQuery(c, &pagination) {
		return
	}
	pagination.Defaults()

	result, err := h.svc.List(c.Request.Context(), domain.ListFilter{
		Search: c.Query("search"),
		Limit:  pagination.PageSize,
		Offset: pagination.Offset(),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create handles POST /catalog/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	startingBalance := types.ZeroMoney()
	if req.StartingBalance != "" {
		var err error
		startingBalance, err = types.NewMoneyFromString(req.StartingBalance)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid starting balance").
				WithDetail("startingBalance", req.StartingBalance))
			return
		}
	}

	cust, err := h.svc.Create(c.Request.Context(), req.Name, req.Phone, startingBalance)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, cust)
}

// GetByID handles GET /catalog/customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	cust, err := h.svc.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, cust)
}

// Delete handles DELETE /catalog/customers/:id (soft delete)
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.SetDeletionMark(c.Request.Context(), customerID, true); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
