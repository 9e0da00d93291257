package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"webquote/internal/pkg/response"
	"webquote/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes exposes read-only catalog endpoints to every authenticated
// user.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/project-types", h.ListProjectTypes)
	rg.GET("/project-types/:id", h.GetProjectType)
	rg.GET("/project-types/:id/features", h.ResolveFeatures)
	rg.GET("/project-types/:id/pages", h.ResolvePages)

	rg.GET("/features", h.ListFeatures)
	rg.GET("/features/:id", h.GetFeature)

	rg.GET("/pages", h.ListPages)
	rg.GET("/pages/:id", h.GetPage)
}

// RegisterAdminRoutes exposes catalog mutations; the caller mounts these
// behind the admin gate.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/project-types", h.CreateProjectType)
	rg.PUT("/project-types/:id", h.UpdateProjectType)
	rg.DELETE("/project-types/:id", h.DeleteProjectType)

	rg.POST("/features", h.CreateFeature)
	rg.PUT("/features/:id", h.UpdateFeature)
	rg.DELETE("/features/:id", h.DeleteFeature)

	rg.POST("/pages", h.CreatePage)
	rg.PUT("/pages/:id", h.UpdatePage)
	rg.DELETE("/pages/:id", h.DeletePage)
}

/* ---------- PROJECT TYPES ---------- */

func (h *Handler) ListProjectTypes(c *gin.Context) {
	types, err := h.service.ListProjectTypes(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project_types": types})
}

func (h *Handler) GetProjectType(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	pt, err := h.service.GetProjectType(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project_type": pt})
}

func (h *Handler) CreateProjectType(c *gin.Context) {
	var req CreateProjectTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fieldErrs := validator.Validate(req); fieldErrs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid project type fields", fieldErrs)
		return
	}

	pt, err := h.service.CreateProjectType(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"project_type": pt})
}

func (h *Handler) UpdateProjectType(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	var req UpdateProjectTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	pt, err := h.service.UpdateProjectType(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project_type": pt})
}

func (h *Handler) DeleteProjectType(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteProjectType(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

/* ---------- ELIGIBILITY ---------- */

func (h *Handler) ResolveFeatures(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	features, err := h.service.ResolveFeaturesForProjectType(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"features": features})
}

func (h *Handler) ResolvePages(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	pages, err := h.service.ResolvePagesForProjectType(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pages": pages})
}

/* ---------- FEATURES ---------- */

func (h *Handler) ListFeatures(c *gin.Context) {
	features, err := h.service.ListFeatures(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"features": features})
}

func (h *Handler) GetFeature(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	f, err := h.service.GetFeature(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"feature": f})
}

func (h *Handler) CreateFeature(c *gin.Context) {
	var req CreateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fieldErrs := validator.Validate(req); fieldErrs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid feature fields", fieldErrs)
		return
	}

	f, err := h.service.CreateFeature(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"feature": f})
}

func (h *Handler) UpdateFeature(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	var req UpdateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	f, err := h.service.UpdateFeature(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"feature": f})
}

func (h *Handler) DeleteFeature(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteFeature(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

/* ---------- PAGES ---------- */

func (h *Handler) ListPages(c *gin.Context) {
	pages, err := h.service.ListPages(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pages": pages})
}

func (h *Handler) GetPage(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	p, err := h.service.GetPage(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"page": p})
}

func (h *Handler) CreatePage(c *gin.Context) {
	var req CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fieldErrs := validator.Validate(req); fieldErrs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid page fields", fieldErrs)
		return
	}

	p, err := h.service.CreatePage(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"page": p})
}

func (h *Handler) UpdatePage(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	var req UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.UpdatePage(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"page": p})
}

func (h *Handler) DeletePage(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePage(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

/* ---------- HELPERS ---------- */

func (h *Handler) paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidPricingType):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
