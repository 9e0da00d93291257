package quote

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"webquote/internal/domain"
	"webquote/internal/middleware"
	"webquote/internal/pkg/response"
	"webquote/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes", h.CreateQuote)
	rg.GET("/quotes", h.ListQuotes)
	rg.GET("/quotes/:id", h.GetQuote)
	rg.PUT("/quotes/:id", h.UpdateQuote)
	rg.PATCH("/quotes/:id/status", h.PatchStatus)
	rg.POST("/quotes/:id/recompute", h.Recompute)
	rg.DELETE("/quotes/:id", h.DeleteQuote)

	rg.POST("/quotes/:id/features", h.AddFeatureLine)
	rg.PUT("/quotes/:id/features/:featureId", h.UpdateFeatureLine)
	rg.DELETE("/quotes/:id/features/:featureId", h.RemoveFeatureLine)

	rg.POST("/quotes/:id/pages", h.AddPageLine)
	rg.PUT("/quotes/:id/pages/:pageId", h.UpdatePageLine)
	rg.DELETE("/quotes/:id/pages/:pageId", h.RemovePageLine)
}

func (h *Handler) CreateQuote(c *gin.Context) {
	ident, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fieldErrs := validator.Validate(req); fieldErrs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote fields", fieldErrs)
		return
	}

	quote, err := h.service.CreateQuote(c.Request.Context(), ident, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quote": quote})
}

func (h *Handler) ListQuotes(c *gin.Context) {
	ident, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	quotes, total, err := h.service.ListQuotes(c.Request.Context(), ident, ListFilters{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"quotes": quotes,
		"total":  total,
	})
}

func (h *Handler) GetQuote(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}

	quote, err := h.service.GetQuote(c.Request.Context(), ident, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quote": quote})
}

func (h *Handler) UpdateQuote(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}

	var req UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	quote, err := h.service.UpdateQuote(c.Request.Context(), ident, id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quote": quote})
}

func (h *Handler) PatchStatus(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}

	var req PatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	quote, err := h.service.PatchStatus(c.Request.Context(), ident, id, req.LeadStatus)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":          quote.ID,
		"lead_status": quote.LeadStatus,
	})
}

func (h *Handler) Recompute(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}

	total, err := h.service.RecomputeTotal(c.Request.Context(), ident, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":          id,
		"total_price": total,
	})
}

func (h *Handler) DeleteQuote(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteQuote(c.Request.Context(), ident, id); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

/* ---------- FEATURE LINES ---------- */

func (h *Handler) AddFeatureLine(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}

	var req AddFeatureLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	line, total, err := h.service.AddFeatureLine(c.Request.Context(), ident, id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"line":        line,
		"total_price": total,
	})
}

func (h *Handler) UpdateFeatureLine(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}
	featureID, err := strconv.ParseInt(c.Param("featureId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid feature ID")
		return
	}

	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	line, total, err := h.service.UpdateFeatureLine(c.Request.Context(), ident, id, featureID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"line":        line,
		"total_price": total,
	})
}

func (h *Handler) RemoveFeatureLine(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}
	featureID, err := strconv.ParseInt(c.Param("featureId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid feature ID")
		return
	}

	total, err := h.service.RemoveFeatureLine(c.Request.Context(), ident, id, featureID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"deleted":     true,
		"total_price": total,
	})
}

/* ---------- PAGE LINES ---------- */

func (h *Handler) AddPageLine(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}

	var req AddPageLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	line, total, err := h.service.AddPageLine(c.Request.Context(), ident, id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"line":        line,
		"total_price": total,
	})
}

func (h *Handler) UpdatePageLine(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}
	pageID, err := strconv.ParseInt(c.Param("pageId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid page ID")
		return
	}

	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	line, total, err := h.service.UpdatePageLine(c.Request.Context(), ident, id, pageID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"line":        line,
		"total_price": total,
	})
}

func (h *Handler) RemovePageLine(c *gin.Context) {
	ident, id, ok := h.identityAndID(c)
	if !ok {
		return
	}
	pageID, err := strconv.ParseInt(c.Param("pageId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid page ID")
		return
	}

	total, err := h.service.RemovePageLine(c.Request.Context(), ident, id, pageID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"deleted":     true,
		"total_price": total,
	})
}

/* ---------- HELPERS ---------- */

func (h *Handler) identityAndID(c *gin.Context) (domain.Identity, int64, bool) {
	ident, ok := middleware.CallerIdentity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return domain.Identity{}, 0, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote ID")
		return domain.Identity{}, 0, false
	}

	return ident, id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrItemNotFound), errors.Is(err, ErrLineNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrDuplicateLine):
		response.Error(c, http.StatusConflict, "DUPLICATE_LINE", "Item already on this quote; update the existing line instead")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
