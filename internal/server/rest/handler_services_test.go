package rest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/buildpanel/internal/server/models"
)

func seedCatalog(env *testEnv) {
	env.catalog.items = []*models.Service{
		{ID: "s-1", Title: "Design", IsActive: true, Order: 0},
		{ID: "s-2", Title: "Archive", IsActive: false, Order: 1},
	}
}

func TestListServices_PublicSeesActiveOnly(t *testing.T) {
	env := newTestEnv(t, Options{}, nil)
	seedCatalog(env)

	rec := env.do(http.MethodGet, "/api/services", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"s-1"`)
	assert.NotContains(t, rec.Body.String(), `"id":"s-2"`)

	rec = env.do(http.MethodGet, "/api/services/all", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"s-2"`)
}

func TestGetService(t *testing.T) {
	env := newTestEnv(t, Options{}, nil)
	seedCatalog(env)

	rec := env.do(http.MethodGet, "/api/services/s-1", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Design", decodeBody(t, rec.Body.Bytes())["title"])

	rec = env.do(http.MethodGet, "/api/services/nope", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServiceWriteRoutes(t *testing.T) {
	env := newTestEnv(t, Options{}, nil)
	seedCatalog(env)

	rec := env.do(http.MethodPost, "/api/services", `{"title":"Roofing","description":"Roofs"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec.Body.Bytes())
	assert.Equal(t, models.DefaultServiceIcon, body["icon"])
	assert.Equal(t, true, body["isActive"])

	rec = env.do(http.MethodPost, "/api/services", `{"description":"Roofs"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPut, "/api/services/s-1", `{"isActive":false}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec.Body.Bytes())["isActive"])

	rec = env.do(http.MethodDelete, "/api/services/s-2", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"service deleted"}`, rec.Body.String())

	rec = env.do(http.MethodDelete, "/api/services/s-2", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
