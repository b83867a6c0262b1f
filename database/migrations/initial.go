package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shoplist/app/models"
	"github.com/shashiranjanraj/shoplist/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_product_table", &CreateProductTable{})
	migration.Register("20260101000001_create_users_table", &CreateUsersTable{})
}

// -------- 0001: product --------

type CreateProductTable struct{}

func (m *CreateProductTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product")
}

// -------- 0002: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}
