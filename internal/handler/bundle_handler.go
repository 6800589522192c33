package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lexledger/lexledger-api/internal/models"
	"github.com/lexledger/lexledger-api/internal/service"
	appErrors "github.com/lexledger/lexledger-api/pkg/errors"
	"github.com/lexledger/lexledger-api/pkg/response"
)

// BundleHandler wires HTTP endpoints to the bundle service.
type BundleHandler struct {
	service *service.BundleService
}

// NewBundleHandler creates a new handler.
func NewBundleHandler(svc *service.BundleService) *BundleHandler {
	return &BundleHandler{service: svc}
}

// List godoc
// @Summary List bundles
// @Tags Bundles
// @Produce json
// @Param status query string false "Status filter (active, inactive)"
// @Param popular query bool false "Popular filter"
// @Param search query string false "Search in name and description"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /bundles [get]
func (h *BundleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter := models.BundleFilter{
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		Page:      page,
		PageSize:  pageSize,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("popular"); raw != "" {
		popular, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "popular must be true or false"))
			return
		}
		filter.Popular = &popular
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Bundles, &result.Pagination)
}

// Get godoc
// @Summary Get a bundle
// @Tags Bundles
// @Produce json
// @Param id path string true "Bundle ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bundles/{id} [get]
func (h *BundleHandler) Get(c *gin.Context) {
	bundle, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bundle, nil)
}

// GetForm godoc
// @Summary Get a bundle in edit-form shape
// @Tags Bundles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bundle ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bundles/{id}/form [get]
func (h *BundleHandler) GetForm(c *gin.Context) {
	form, err := h.service.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}

// Create godoc
// @Summary Create a bundle
// @Tags Bundles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.BundleCreateRequest true "Bundle payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /bundles [post]
func (h *BundleHandler) Create(c *gin.Context) {
	var req models.BundleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bundle payload"))
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Update a bundle
// @Tags Bundles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bundle ID"
// @Param payload body models.BundleUpdateRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bundles/{id} [put]
func (h *BundleHandler) Update(c *gin.Context) {
	var req models.BundleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bundle payload"))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Delete godoc
// @Summary Delete a bundle
// @Tags Bundles
// @Security BearerAuth
// @Param id path string true "Bundle ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /bundles/{id} [delete]
func (h *BundleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
