package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/shashiranjanraj/shoplist/app/models"
	"github.com/shashiranjanraj/shoplist/app/repositories"
	"github.com/shashiranjanraj/shoplist/pkg/logger"
	"github.com/shashiranjanraj/shoplist/pkg/workerpool"
)

// Validation errors surfaced synchronously, before any I/O starts.
var (
	ErrEmptyName        = errors.New("services: product name must not be empty")
	ErrNegativeQuantity = errors.New("services: quantity must not be negative")
)

// ProductService orchestrates the product lifecycle: validate, enrich with
// an image, commit. Once validation passes, AddProduct cannot fail on the
// image path — a missing or broken remote photo only degrades to the
// bundled default.
type ProductService struct {
	repo     *repositories.ProductRepository
	resolver *ImageResolver
	pool     *workerpool.Pool
}

// NewProductService wires the service. The worker pool bounds how many
// remote enrichments run at once when add-product requests overlap.
func NewProductService(repo *repositories.ProductRepository, resolver *ImageResolver) *ProductService {
	return &ProductService{
		repo:     repo,
		resolver: resolver,
		pool:     workerpool.New(8),
	}
}

// AddProduct validates, resolves an image for name, then commits the record.
// catalogID is display-only; pass 0 to have one assigned the way the mobile
// client does (random in [1,100]). The returned product carries the
// store-assigned UID and a non-nil image.
func (s *ProductService) AddProduct(ctx context.Context, name string, quantity, catalogID int) (models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Product{}, ErrEmptyName
	}
	if quantity < 0 {
		return models.Product{}, ErrNegativeQuantity
	}
	if catalogID <= 0 {
		catalogID = rand.Intn(100) + 1
	}

	img := s.resolveBounded(ctx, name)

	p := models.Product{
		CatalogID: catalogID,
		Name:      name,
		Quantity:  quantity,
		ImageData: img,
	}
	if err := s.repo.Create(&p); err != nil {
		return models.Product{}, fmt.Errorf("services: commit product: %w", err)
	}

	logger.WithCtx(ctx).Info("product committed",
		"uid", p.UID, "name", p.Name, "quantity", p.Quantity, "image_bytes", len(p.ImageData))
	return p, nil
}

// resolveBounded runs image resolution through the worker pool so bursts of
// creates cannot open unbounded outgoing connections. If the pool is
// shutting down the resolution runs inline; the operation still completes.
func (s *ProductService) resolveBounded(ctx context.Context, name string) []byte {
	done := make(chan []byte, 1)
	err := s.pool.SubmitWait(func() {
		done <- s.resolver.Resolve(ctx, name)
	})
	if err != nil {
		return s.resolver.Resolve(ctx, name)
	}
	return <-done
}

// List returns the current snapshot of all products.
func (s *ProductService) List() ([]models.Product, error) {
	return s.repo.All()
}

// Get returns one product by uid.
func (s *ProductService) Get(uid uint) (models.Product, error) {
	return s.repo.Get(uid)
}

// UpdateProduct edits name and quantity of an existing product. The stored
// image is left untouched. Returns repositories.ErrNotFound for unknown uids.
func (s *ProductService) UpdateProduct(uid uint, name string, quantity int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	return s.repo.Update(uid, name, quantity)
}

// DeleteProduct removes a product permanently.
func (s *ProductService) DeleteProduct(uid uint) error {
	return s.repo.Delete(uid)
}

// DeleteAll clears the list.
func (s *ProductService) DeleteAll() error {
	return s.repo.DeleteAll()
}

// Watch exposes the store's live snapshot sequence.
func (s *ProductService) Watch(ctx context.Context) <-chan []models.Product {
	return s.repo.Watch(ctx)
}

// Shutdown drains in-flight enrichments.
func (s *ProductService) Shutdown() {
	s.pool.Shutdown()
}
