package handlers

import (
	"github.com/gin-gonic/gin"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/core/types"
	"fowlpos/internal/domain"
	"fowlpos/internal/domain/catalogs/product"
	"fowlpos/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves price catalog maintenance endpoints.
type ProductHandler struct {
	*BaseHandler
	svc *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(svc *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: NewBaseHandler(), svc: svc}
}

// RegisterRoutes registers product routes. Reads are open to any
// authenticated terminal; writes go through the manage guard.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup, manage gin.HandlerFunc) {
	g := rg.Group("/catalog/products")
	{
		g.GET("", h.List)
		g.GET("/:id", h.GetByID)
	}
	w := g.Group("", manage)
	{
		w.POST("", h.Create)
		w.PUT("/:id/price", h.UpdatePrice)
		w.DELETE("/:id", h.Delete)
	}
}

// List handles GET /catalog/products
func (h *ProductHandler) List(c *gin.Context) {
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

// Create handles POST /catalog/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	price, err := types.NewMoneyFromString(req.Price)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid price").WithDetail("price", req.Price))
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req.Name, req.Unit, price)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, p)
}

// GetByID handles GET /catalog/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// UpdatePrice handles PUT /catalog/products/:id/price
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	price, err := types.NewMoneyFromString(req.Price)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid price").WithDetail("price", req.Price))
		return
	}

	p, err := h.svc.UpdatePrice(c.Request.Context(), productID, price, req.Version)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Delete handles DELETE /catalog/products/:id. Default is a deletion
// mark; ?hard=true removes the row (refused once sales reference it).
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var err error
	if c.Query("hard") == "true" {
		err = h.svc.Delete(c.Request.Context(), productID)
	} else {
		err = h.svc.SetDeletionMark(c.Request.Context(), productID, true)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
