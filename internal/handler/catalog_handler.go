package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lexledger/lexledger-api/internal/models"
	"github.com/lexledger/lexledger-api/internal/service"
	appErrors "github.com/lexledger/lexledger-api/pkg/errors"
	"github.com/lexledger/lexledger-api/pkg/response"
)

// CatalogHandler wires HTTP endpoints to the catalog service.
type CatalogHandler struct {
	catalog *service.CatalogService
	export  *service.ExportService
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(catalog *service.CatalogService, export *service.ExportService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, export: export}
}

func serviceFilterFromQuery(c *gin.Context) models.ServiceFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return models.ServiceFilter{
		Category:  c.Query("category"),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		Page:      page,
		PageSize:  pageSize,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
}

// List godoc
// @Summary List services
// @Tags Services
// @Produce json
// @Param category query string false "Category filter"
// @Param status query string false "Status filter (active, inactive)"
// @Param search query string false "Search in name and description"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /services [get]
func (h *CatalogHandler) List(c *gin.Context) {
	result, err := h.catalog.List(c.Request.Context(), serviceFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Services, &result.Pagination)
}

// Get godoc
// @Summary Get a service
// @Tags Services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /services/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	service, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service, nil)
}

// GetForm godoc
// @Summary Get a service in edit-form shape
// @Description List fields are rendered as comma-separated text and the FAQ as a Q:/A: block.
// @Tags Services
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /services/{id}/form [get]
func (h *CatalogHandler) GetForm(c *gin.Context) {
	form, err := h.catalog.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}

// Create godoc
// @Summary Create a service
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ServiceCreateRequest true "Service payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /services [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	var req models.ServiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid service payload"))
		return
	}

	created, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Update a service
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param payload body models.ServiceUpdateRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /services/{id} [put]
func (h *CatalogHandler) Update(c *gin.Context) {
	var req models.ServiceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid service payload"))
		return
	}

	updated, err := h.catalog.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Delete godoc
// @Summary Delete a service
// @Tags Services
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /services/{id} [delete]
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Bulk godoc
// @Summary Apply a bulk action to services
// @Description Supported actions: activate, deactivate, delete.
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.BulkServiceRequest true "Bulk payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /services/bulk [post]
func (h *CatalogHandler) Bulk(c *gin.Context) {
	var req models.BulkServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk payload"))
		return
	}

	result, err := h.catalog.Bulk(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Categories godoc
// @Summary List service categories with counts
// @Tags Services
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /services/categories [get]
func (h *CatalogHandler) Categories(c *gin.Context) {
	counts, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}

// Export godoc
// @Summary Export the service catalog
// @Description Streams the filtered catalog as CSV or PDF.
// @Tags Services
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /services/export [get]
func (h *CatalogHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	file, err := h.export.Services(c.Request.Context(), serviceFilterFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
