package seeders

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shoplist/app/models"
	"github.com/shashiranjanraj/shoplist/app/repositories"
	"github.com/shashiranjanraj/shoplist/assets"
)

func init() {
	Register("products", SeedProducts)
}

// Catalog is the starter list written into an empty store. Images come
// from the bundled assets so seeding never touches the network.
func Catalog() []models.Product {
	entries := []struct {
		catalogID int
		name      string
		quantity  int
		imageKey  string
	}{
		{1, "Beer", 25, assets.KeyBeer},
		{2, "Laptop", 10, assets.KeyLaptop},
		{3, "Headphones", 30, assets.KeyHeadphones},
		{4, "Bottle of water", 50, assets.KeyWaterBottle},
		{5, "Tomato", 21, assets.KeyTomato},
		{6, "Perfume", 20, assets.KeyPerfume},
		{7, "Spread", 40, assets.KeySpread},
	}

	catalog := make([]models.Product, len(entries))
	for i, e := range entries {
		catalog[i] = models.Product{
			CatalogID: e.catalogID,
			Name:      e.name,
			Quantity:  e.quantity,
			ImageData: assets.MustGet(e.imageKey),
		}
	}
	return catalog
}

// SeedProducts inserts the starter catalog when the product table is
// empty. A non-empty table is left untouched.
func SeedProducts(db *gorm.DB) error {
	_, err := repositories.NewProductRepository(db).SeedIfEmpty(Catalog())
	return err
}
