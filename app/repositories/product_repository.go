// Package repositories holds the persistence layer. ProductRepository is the
// only owner of the product table; every mutation goes through it so change
// notification and cache invalidation cannot be bypassed.
package repositories

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shoplist/app/models"
	"github.com/shashiranjanraj/shoplist/pkg/cache"
	"github.com/shashiranjanraj/shoplist/pkg/event"
	"github.com/shashiranjanraj/shoplist/pkg/metrics"
)

// ErrNotFound is returned by Update and Delete when no row has the given uid.
var ErrNotFound = errors.New("repositories: product not found")

const (
	listCacheKey = "products:all"
	listCacheTTL = 30 * time.Second
)

// ProductRepository persists products in the injected database handle.
type ProductRepository struct {
	db *gorm.DB

	watchMu  sync.Mutex
	watchers map[chan struct{}]struct{}
}

// NewProductRepository wires a repository to db. The handle is owned by the
// caller; the repository never opens or closes connections itself.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		db:       db,
		watchers: make(map[chan struct{}]struct{}),
	}
}

// Create inserts a new product; the store assigns p.UID. The caller must
// have resolved ImageData first — committed products always carry an image.
func (r *ProductRepository) Create(p *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	if err := r.db.Create(p).Error; err != nil {
		return err
	}

	metrics.ProductMutations.WithLabelValues("create").Inc()
	r.committed(event.ProductCreated, p.UID)
	return nil
}

// All returns the current snapshot in uid (insertion) order.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	if cache.Get(listCacheKey, &products) {
		return products, nil
	}

	defer metrics.ObserveDBQuery("select", time.Now())
	if err := r.db.Order("uid").Find(&products).Error; err != nil {
		return nil, err
	}

	_ = cache.Set(listCacheKey, products, listCacheTTL)
	return products, nil
}

// Get returns the product with the given uid.
func (r *ProductRepository) Get(uid uint) (models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var p models.Product
	err := r.db.Where("uid = ?", uid).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	return p, err
}

// GetByCatalogID returns the first product carrying the display id.
// Catalog ids are not unique; first match in uid order wins.
func (r *ProductRepository) GetByCatalogID(id int) (models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var p models.Product
	err := r.db.Where("id = ?", id).Order("uid").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	return p, err
}

// Update changes name and quantity of an existing product. The image is
// never touched by an update. Returns ErrNotFound when uid does not exist.
func (r *ProductRepository) Update(uid uint, name string, quantity int) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	res := r.db.Model(&models.Product{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{"name": name, "quantity": quantity})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	metrics.ProductMutations.WithLabelValues("update").Inc()
	r.committed(event.ProductUpdated, uid)
	return nil
}

// Delete removes a product permanently. Returns ErrNotFound when uid does
// not exist; the uid is never reassigned to a later insert.
func (r *ProductRepository) Delete(uid uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	res := r.db.Where("uid = ?", uid).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	metrics.ProductMutations.WithLabelValues("delete").Inc()
	r.committed(event.ProductDeleted, uid)
	return nil
}

// DeleteAll clears the table.
func (r *ProductRepository) DeleteAll() error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	if err := r.db.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
		return err
	}

	metrics.ProductMutations.WithLabelValues("delete").Inc()
	r.committed(event.ProductDeleted, nil)
	return nil
}

// Count returns the number of stored products.
func (r *ProductRepository) Count() (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var n int64
	err := r.db.Model(&models.Product{}).Count(&n).Error
	return n, err
}

// SeedIfEmpty bulk-inserts the default catalog when the table is empty.
// The count check and the inserts share one transaction, so two concurrent
// calls cannot both seed. Calling it on a non-empty store is a no-op.
func (r *ProductRepository) SeedIfEmpty(catalog []models.Product) (bool, error) {
	seeded := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Product{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		if err := tx.Create(&catalog).Error; err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		metrics.ProductMutations.WithLabelValues("seed").Inc()
		r.committed(event.ProductSeeded, nil)
	}
	return seeded, nil
}

// Watch returns a live sequence of snapshots: the current product list is
// sent immediately, then a fresh snapshot after every committed mutation,
// until ctx is done. Rapid mutations may coalesce into one snapshot; the
// last value always reflects the latest committed state.
func (r *ProductRepository) Watch(ctx context.Context) <-chan []models.Product {
	wake := make(chan struct{}, 1)
	out := make(chan []models.Product, 1)

	r.watchMu.Lock()
	r.watchers[wake] = struct{}{}
	r.watchMu.Unlock()

	go func() {
		defer func() {
			r.watchMu.Lock()
			delete(r.watchers, wake)
			r.watchMu.Unlock()
			close(out)
		}()

		push := func() bool {
			snapshot, err := r.All()
			if err != nil {
				return true // transient read failure; keep the subscription
			}
			select {
			case out <- snapshot:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !push() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
				if !push() {
					return
				}
			}
		}
	}()

	return out
}

// committed runs after every successful write: it busts the list cache,
// wakes watchers and fires the store event, in that order, on the writer's
// goroutine — so notification order follows commit order.
func (r *ProductRepository) committed(name string, payload interface{}) {
	_ = cache.Del(listCacheKey)

	r.watchMu.Lock()
	for wake := range r.watchers {
		select {
		case wake <- struct{}{}:
		default: // already signalled; snapshots coalesce
		}
	}
	r.watchMu.Unlock()

	event.Fire(name, payload)
}
