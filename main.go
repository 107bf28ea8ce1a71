package main

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/config"
	"github.com/sisrafilss/local-guide-server/gateway"
	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/routes"
	"github.com/sisrafilss/local-guide-server/services"
	"github.com/sisrafilss/local-guide-server/utils"
)

func main() {
	cfg := config.Load()

	db, err := config.ConnectDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if err := utils.SeedSuperAdmin(db, "admin@gmail.com", "123456", cfg.SaltRound); err != nil {
		log.Printf("super admin seed failed: %v", err)
	}

	sslClient := gateway.NewClient(cfg.SSL)
	paymentSvc := services.NewPaymentService(services.NewPaymentStore(db), sslClient)

	r := routes.SetupRouter(db, cfg, paymentSvc)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("server running on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{}, &models.Tourist{}, &models.Guide{}, &models.Admin{},
		&models.RefreshToken{}, &models.Listing{}, &models.ListingImage{},
		&models.Booking{}, &models.Payment{},
	)
}
