package report

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"webquote/internal/middleware"
	"webquote/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the report endpoints; callers put the group behind
// the admin gate, the service re-checks regardless.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/feature-usage", h.FeatureUsage)
	rg.GET("/reports/sales-performance", h.SalesPerformance)
}

func (h *Handler) FeatureUsage(c *gin.Context) {
	ident, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	from, to, err := parseWindow(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid from/to date; expected RFC 3339")
		return
	}

	rows, err := h.service.FeatureUsage(c.Request.Context(), ident, from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"feature_usage": rows})
}

func (h *Handler) SalesPerformance(c *gin.Context) {
	ident, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	from, to, err := parseWindow(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid from/to date; expected RFC 3339")
		return
	}

	entries, err := h.service.SalesPerformance(c.Request.Context(), ident, from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sales_performance": entries})
}

func parseWindow(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrForbidden) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
}
