package seeders

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shoplist/app/models"
	"github.com/shashiranjanraj/shoplist/app/repositories"
	"github.com/shashiranjanraj/shoplist/config"
)

func init() {
	Register("admin_user", SeedAdminUser)
}

// SeedAdminUser creates the admin account from config when no users
// exist yet.
func SeedAdminUser(db *gorm.DB) error {
	repo := repositories.NewUserRepository(db)

	count, err := repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.AdminPassword()), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return repo.Create(&models.User{
		Email:    config.AdminEmail(),
		Password: string(hash),
	})
}
