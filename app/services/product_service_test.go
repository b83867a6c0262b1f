package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shoplist/app/models"
	"github.com/shashiranjanraj/shoplist/app/repositories"
	"github.com/shashiranjanraj/shoplist/app/services"
	"github.com/shashiranjanraj/shoplist/assets"
	"github.com/shashiranjanraj/shoplist/pkg/database"
	"github.com/shashiranjanraj/shoplist/pkg/event"
	shophttp "github.com/shashiranjanraj/shoplist/pkg/http"
	"github.com/shashiranjanraj/shoplist/pkg/testkit"
)

type stubSearcher struct {
	url string
	err error
}

func (s *stubSearcher) Search(_ context.Context, _ string) (string, error) {
	return s.url, s.err
}

func newService(t *testing.T, searcher services.Searcher) *services.ProductService {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	svc := services.NewProductService(
		repositories.NewProductRepository(db),
		services.NewImageResolver(searcher),
	)
	t.Cleanup(svc.Shutdown)
	t.Cleanup(event.Flush)
	return svc
}

func TestAddProductRejectsEmptyName(t *testing.T) {
	svc := newService(t, &stubSearcher{})

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.AddProduct(context.Background(), name, 1, 0)
		assert.ErrorIs(t, err, services.ErrEmptyName)
	}

	all, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, all, "rejected input must not reach the store")
}

func TestAddProductRejectsNegativeQuantity(t *testing.T) {
	svc := newService(t, &stubSearcher{})

	_, err := svc.AddProduct(context.Background(), "Beer", -1, 0)
	assert.ErrorIs(t, err, services.ErrNegativeQuantity)
}

func TestAddProductTrimsName(t *testing.T) {
	svc := newService(t, &stubSearcher{})

	p, err := svc.AddProduct(context.Background(), "  Beer  ", 25, 1)
	require.NoError(t, err)
	assert.Equal(t, "Beer", p.Name)
}

func TestAddProductAssignsCatalogID(t *testing.T) {
	svc := newService(t, &stubSearcher{})

	p, err := svc.AddProduct(context.Background(), "Beer", 25, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.CatalogID, 1)
	assert.LessOrEqual(t, p.CatalogID, 100)

	p, err = svc.AddProduct(context.Background(), "Laptop", 10, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, p.CatalogID)
}

func TestAddProductUsesRemotePhoto(t *testing.T) {
	photo := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}
	mt := testkit.NewMockTransport().
		Stub("https://images.test/beer.jpg", http.StatusOK, photo)
	shophttp.DefaultClient.Transport = mt
	t.Cleanup(shophttp.ResetTransport)

	svc := newService(t, &stubSearcher{url: "https://images.test/beer.jpg"})

	p, err := svc.AddProduct(context.Background(), "Beer", 25, 1)
	require.NoError(t, err)
	assert.Equal(t, photo, []byte(p.ImageData))

	// The committed row carries the same bytes.
	got, err := svc.Get(p.UID)
	require.NoError(t, err)
	assert.Equal(t, photo, []byte(got.ImageData))
}

func TestAddProductSucceedsWhenPhotoServiceIsDown(t *testing.T) {
	svc := newService(t, &stubSearcher{err: errors.New("connection refused")})

	p, err := svc.AddProduct(context.Background(), "Beer", 25, 1)
	require.NoError(t, err, "a broken photo service must not block the add")
	assert.Equal(t, assets.MustGet(assets.KeyDefault), []byte(p.ImageData))
}

func TestAddProductFallsBackOnZeroResults(t *testing.T) {
	svc := newService(t, &stubSearcher{url: ""})

	p, err := svc.AddProduct(context.Background(), "Unphotographable", 1, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, []byte(p.ImageData), "committed products always carry an image")
	assert.Equal(t, assets.MustGet(assets.KeyDefault), []byte(p.ImageData))
}

func TestUpdateProductValidation(t *testing.T) {
	svc := newService(t, &stubSearcher{})

	assert.ErrorIs(t, svc.UpdateProduct(1, "  ", 5), services.ErrEmptyName)
	assert.ErrorIs(t, svc.UpdateProduct(1, "Beer", -2), services.ErrNegativeQuantity)
	assert.ErrorIs(t, svc.UpdateProduct(99, "Beer", 5), repositories.ErrNotFound)
}

func TestUpdateProductKeepsImage(t *testing.T) {
	svc := newService(t, &stubSearcher{url: ""})

	p, err := svc.AddProduct(context.Background(), "Beer", 25, 1)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProduct(p.UID, "Craft beer", 6))

	got, err := svc.Get(p.UID)
	require.NoError(t, err)
	assert.Equal(t, "Craft beer", got.Name)
	assert.Equal(t, 6, got.Quantity)
	assert.Equal(t, []byte(p.ImageData), []byte(got.ImageData))
}

func TestDeleteProductThenAddDoesNotReuseUID(t *testing.T) {
	svc := newService(t, &stubSearcher{url: ""})

	first, err := svc.AddProduct(context.Background(), "Beer", 1, 1)
	require.NoError(t, err)
	second, err := svc.AddProduct(context.Background(), "Laptop", 1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(first.UID))

	third, err := svc.AddProduct(context.Background(), "Tomato", 1, 3)
	require.NoError(t, err)
	assert.Greater(t, third.UID, second.UID)
	assert.NotEqual(t, first.UID, third.UID)
}

func TestWatchSeesServiceWrites(t *testing.T) {
	svc := newService(t, &stubSearcher{url: ""})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.Watch(ctx)
	assert.Empty(t, <-ch)

	_, err := svc.AddProduct(context.Background(), "Beer", 25, 1)
	require.NoError(t, err)

	snapshot := <-ch
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Beer", snapshot[0].Name)
}
