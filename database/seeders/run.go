// Package seeders holds the seed data written into a fresh store: the
// starter product catalog and the admin account. Seeders register
// themselves from init() and run via `shoplist seed` or at server boot.
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shoplist/pkg/logger"
)

// SeederFunc seeds one concern. Every seeder must be a no-op when its data
// already exists, so reruns are safe.
type SeederFunc func(db *gorm.DB) error

type entry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a seeder to the registry. Called from init() in this
// package's seed files.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order and stops
// on the first error.
func RunAll(db *gorm.DB) error {
	mu.Lock()
	current := make([]entry, len(entries))
	copy(current, entries)
	mu.Unlock()

	for _, e := range current {
		if err := e.fn(db); err != nil {
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		logger.Info("seeder finished", "name", e.name)
	}
	return nil
}
