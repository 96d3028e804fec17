package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fowlpos/internal/core/apperror"
	"fowlpos/internal/domain/reports"
)

// ReportsHandler serves read-only sales reports.
type ReportsHandler struct {
	*BaseHandler
	svc *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(svc *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: NewBaseHandler(), svc: svc}
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/reports")
	{
		g.GET("/daily", h.Daily)
		g.GET("/monthly", h.Monthly)
		g.GET("/range", h.Range)
		g.GET("/customer-balances", h.CustomerBalances)
	}
}

// Daily handles GET /reports/daily?date=YYYY-MM-DD
func (h *ReportsHandler) Daily(c *gin.Context) {
	date, ok := h.parseDateQuery(c, "date", time.Now().UTC())
	if !ok {
		return
	}

	s, err := h.svc.Daily(c.Request.Context(), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, s)
}

// Monthly handles GET /reports/monthly?from=&to=
func (h *ReportsHandler) Monthly(c *gin.Context) {
	now := time.Now().UTC()
	from, ok := h.parseDateQuery(c, "from", now.AddDate(-1, 0, 0))
	if !ok {
		return
	}
	to, ok := h.parseDateQuery(c, "to", now)
	if !ok {
		return
	}

	buckets, err := h.svc.Monthly(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": buckets})
}

// Range handles GET /reports/range?from=&to=
func (h *ReportsHandler) Range(c *gin.Context) {
	from, ok := h.parseRequiredDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.parseRequiredDateQuery(c, "to")
	if !ok {
		return
	}

	report, err := h.svc.Range(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// CustomerBalances handles GET /reports/customer-balances
func (h *ReportsHandler) CustomerBalances(c *gin.Context) {
	rows, err := h.svc.CustomerBalances(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": rows})
}

func (h *ReportsHandler) parseDateQuery(c *gin.Context, key string, defaultVal time.Time) (time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return defaultVal, true
	}
	parsed, err := time.Parse(dateLayout, val)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date, expected YYYY-MM-DD").WithDetail(key, val))
		return time.Time{}, false
	}
	return parsed, true
}

func (h *ReportsHandler) parseRequiredDateQuery(c *gin.Context, key string) (time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		h.Error(c, apperror.NewValidation(key+" query parameter is required"))
		return time.Time{}, false
	}
	parsed, err := time.Parse(dateLayout, val)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date, expected YYYY-MM-DD").WithDetail(key, val))
		return time.Time{}, false
	}
	return parsed, true
}
