package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shoplist/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutePaths(t *testing.T) {
	r := router.New()
	r.Get("/api/products", "products.list", ok)
	r.Get("/api/products/{uid}/image", "products.image", ok)

	path, found := r.Path("products.list")
	require.True(t, found)
	assert.Equal(t, "/api/products", path)

	_, found = r.Path("missing")
	assert.False(t, found)
}

func TestURLSubstitutesParams(t *testing.T) {
	r := router.New()
	r.Get("/api/products/{uid}/image", "products.image", ok)

	url, err := r.URL("products.image", map[string]string{"uid": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/7/image", url)

	_, err = r.URL("products.image", nil)
	assert.Error(t, err, "unfilled params must be an error")
}

func TestGroupPrefixesRoutes(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/products", "products.list", ok)

	nested := api.Group("/admin")
	nested.Delete("/products", "products.clear", ok)

	path, found := r.Path("products.clear")
	require.True(t, found)
	assert.Equal(t, "/api/admin/products", path)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGroupMiddlewareApplies(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}

	r := router.New()
	r.Get("/open", "open", ok)

	locked := r.Group("/locked", deny)
	locked.Get("/x", "locked.x", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/locked/x", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoutesListsEverything(t *testing.T) {
	r := router.New()
	r.Get("/a", "a", ok)
	r.Post("/b", "b", ok)

	infos := r.Routes()
	assert.Len(t, infos, 2)
}
