// Package assets bundles the default product images into the binary.
//
// The mapping from logical key to bytes is fixed at compile time via
// go:embed; there is no runtime lookup against a mutable registry. The keys
// mirror the default catalog seeded on first run.
package assets

import (
	"embed"
	"path"
)

//go:embed img/*.png
var images embed.FS

// Logical image keys.
const (
	KeyDefault     = "default_product"
	KeyBeer        = "beer"
	KeyLaptop      = "laptop"
	KeyHeadphones  = "headphones"
	KeyWaterBottle = "water_bottle"
	KeyTomato      = "tomato"
	KeyPerfume     = "perfume"
	KeySpread      = "spread"
)

// FallbackChain is the ordered list of keys tried when a product has no
// remote photo: the named default first, then the catalog's first product
// image as a last resort.
var FallbackChain = []string{KeyDefault, KeyBeer}

// Get returns the bytes for a logical image key.
func Get(key string) ([]byte, bool) {
	data, err := images.ReadFile(path.Join("img", key+".png"))
	if err != nil {
		return nil, false
	}
	return data, true
}

// MustGet returns the bytes for key and panics when the key is unknown.
// Only used for the compiled-in seed catalog, where a miss is a build error.
func MustGet(key string) []byte {
	data, ok := Get(key)
	if !ok {
		panic("assets: missing embedded image " + key)
	}
	return data
}
