package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lexledger/lexledger-api/internal/models"
	"github.com/lexledger/lexledger-api/internal/service"
)

type memoryBundleRepo struct {
	seq     int
	bundles map[string]*models.Bundle
	order   []string
}

func newMemoryBundleRepo() *memoryBundleRepo {
	return &memoryBundleRepo{bundles: map[string]*models.Bundle{}}
}

func (m *memoryBundleRepo) List(ctx context.Context, filter models.BundleFilter) ([]models.Bundle, int, error) {
	matched := []models.Bundle{}
	for _, id := range m.order {
		bundle, ok := m.bundles[id]
		if !ok {
			continue
		}
		if filter.Status != "" && string(bundle.Status) != filter.Status {
			continue
		}
		if filter.Popular != nil && bundle.Popular != *filter.Popular {
			continue
		}
		matched = append(matched, *bundle)
	}
	return matched, len(matched), nil
}

func (m *memoryBundleRepo) FindByID(ctx context.Context, id string) (*models.Bundle, error) {
	bundle, ok := m.bundles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *bundle
	return &copied, nil
}

func (m *memoryBundleRepo) Create(ctx context.Context, bundle *models.Bundle) error {
	m.seq++
	bundle.ID = fmt.Sprintf("bdl-%d", m.seq)
	m.bundles[bundle.ID] = bundle
	m.order = append(m.order, bundle.ID)
	return nil
}

func (m *memoryBundleRepo) Update(ctx context.Context, bundle *models.Bundle) error {
	if _, ok := m.bundles[bundle.ID]; !ok {
		return sql.ErrNoRows
	}
	m.bundles[bundle.ID] = bundle
	return nil
}

func (m *memoryBundleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.bundles[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.bundles, id)
	return nil
}

func buildBundleRouter(repo *memoryBundleRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	bundleSvc := service.NewBundleService(repo, nil, nil, nil, service.CatalogConfig{})
	h := NewBundleHandler(bundleSvc)

	router := gin.New()
	bundles := router.Group("/bundles")
	bundles.GET("", h.List)
	bundles.GET("/:id", h.Get)
	bundles.GET("/:id/form", h.GetForm)
	bundles.POST("", h.Create)
	bundles.PUT("/:id", h.Update)
	bundles.DELETE("/:id", h.Delete)
	return router
}

const bundleTextPayload = `{
	"name": "Startup Launch Pack",
	"description": "Everything to get a company off the ground",
	"price": "₹45,000",
	"original_price": "₹60,000",
	"savings": "₹15,000",
	"popular": true,
	"features": "Company registration, GST registration, Trademark filing",
	"includes": "Dedicated advisor, Document pickup",
	"process": "Consultation, Documentation, Filing, Delivery",
	"benefits": "Single point of contact"
}`

func TestBundleRoutesCRUD(t *testing.T) {
	repo := newMemoryBundleRepo()
	router := buildBundleRouter(repo)

	resp := performJSON(router, http.MethodPost, "/bundles", bundleTextPayload, "")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		Data models.Bundle `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	require.Equal(t, models.StringList{"Company registration", "GST registration", "Trademark filing"}, created.Data.Features)
	require.True(t, created.Data.Popular)

	resp = performJSON(router, http.MethodGet, "/bundles/"+created.Data.ID+"/form", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"process":"Consultation, Documentation, Filing, Delivery"`)

	resp = performJSON(router, http.MethodGet, "/bundles?popular=true", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Startup Launch Pack")

	resp = performJSON(router, http.MethodGet, "/bundles?popular=maybe", "", "")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performJSON(router, http.MethodPut, "/bundles/"+created.Data.ID, `{"savings":"₹20,000"}`, "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "₹20,000")

	resp = performJSON(router, http.MethodDelete, "/bundles/"+created.Data.ID, "", "")
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = performJSON(router, http.MethodGet, "/bundles/"+created.Data.ID, "", "")
	require.Equal(t, http.StatusNotFound, resp.Code)
}
