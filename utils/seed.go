package utils

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/models"
)

// SeedSuperAdmin creates the initial ADMIN account if none exists yet.
func SeedSuperAdmin(db *gorm.DB, email, password string, saltRound int) error {
	var existing models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		log.Println("super admin already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := HashPassword(password, saltRound)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Name:     "Admin",
			Email:    email,
			Password: hashedPassword,
			Phone:    "0123456789",
			Address:  "Dhaka, BD",
			Gender:   "MALE",
			Role:     models.RoleAdmin,
			Status:   models.UserActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		admin := models.Admin{UserID: user.ID}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		log.Printf("super admin created: %s", user.Email)
		return nil
	})
}
