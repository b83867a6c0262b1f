package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/shoplist/app/models"
	"github.com/shashiranjanraj/shoplist/app/repositories"
	"github.com/shashiranjanraj/shoplist/app/routes"
	"github.com/shashiranjanraj/shoplist/app/services"
	"github.com/shashiranjanraj/shoplist/assets"
	"github.com/shashiranjanraj/shoplist/pkg/database"
	"github.com/shashiranjanraj/shoplist/pkg/event"
)

type noPhotoSearcher struct{}

func (noPhotoSearcher) Search(context.Context, string) (string, error) { return "", nil }

func newAPI(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Email: "admin@shoplist.local", Password: string(hash)}).Error)

	products := services.NewProductService(
		repositories.NewProductRepository(db),
		services.NewImageResolver(noPhotoSearcher{}),
	)
	t.Cleanup(products.Shutdown)
	t.Cleanup(event.Flush)

	auth := services.NewAuthService(repositories.NewUserRepository(db))

	r, _ := routes.Register(routes.Deps{Products: products, Auth: auth})
	return r.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "admin@shoplist.local",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Data.Token)
	return out.Data.Token
}

func TestHealthz(t *testing.T) {
	h := newAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shoplist_")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "admin@shoplist.local",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWriteRoutesRequireAuth(t *testing.T) {
	h := newAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/api/products", "", map[string]interface{}{
		"name": "Beer", "quantity": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/products/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductLifecycle(t *testing.T) {
	h := newAPI(t)
	token := login(t, h)

	// Create.
	rec := doJSON(t, h, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Beer", "quantity": 25, "catalog_id": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			UID        uint   `json:"uid"`
			Name       string `json:"name"`
			Quantity   int    `json:"quantity"`
			ImageBytes int    `json:"image_bytes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Beer", created.Data.Name)
	assert.Positive(t, created.Data.UID)
	assert.Positive(t, created.Data.ImageBytes, "committed products always carry an image")

	// List.
	rec = doJSON(t, h, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Beer"`)

	// Image bytes round-trip through the base64 text column.
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d/image", created.Data.UID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, assets.MustGet(assets.KeyDefault), rec.Body.Bytes())

	// Update.
	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/products/%d", created.Data.UID), token, map[string]interface{}{
		"name": "Craft beer", "quantity": 6,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"Craft beer"`)

	// Delete.
	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/products/%d", created.Data.UID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d/image", created.Data.UID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateValidation(t *testing.T) {
	h := newAPI(t)
	token := login(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "", "quantity": 5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Beer", "quantity": -1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateUnknownProduct(t *testing.T) {
	h := newAPI(t)
	token := login(t, h)

	rec := doJSON(t, h, http.MethodPut, "/api/products/999", token, map[string]interface{}{
		"name": "Ghost", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGraphQLProductsQuery(t *testing.T) {
	h := newAPI(t)
	token := login(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Tomato", "quantity": 21, "catalog_id": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/graphql", "", map[string]string{
		"query": `{ products { uid catalogId name quantity imageBytes } }`,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data struct {
			Products []struct {
				Name       string `json:"name"`
				CatalogID  int    `json:"catalogId"`
				ImageBytes int    `json:"imageBytes"`
			} `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Data.Products, 1)
	assert.Equal(t, "Tomato", out.Data.Products[0].Name)
	assert.Equal(t, 5, out.Data.Products[0].CatalogID)
	assert.Positive(t, out.Data.Products[0].ImageBytes)
}

func TestDeleteAllClearsList(t *testing.T) {
	h := newAPI(t)
	token := login(t, h)

	for _, name := range []string{"Beer", "Laptop"} {
		rec := doJSON(t, h, http.MethodPost, "/api/products", token, map[string]interface{}{
			"name": name, "quantity": 1,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, h, http.MethodDelete, "/api/products", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}
