// Seed script for creating a demo customer.
// Run with: go run ./scripts/seed.go
package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Abbaskay/watch-sense/internal/model"
	"github.com/Abbaskay/watch-sense/pkg/config"
	"github.com/Abbaskay/watch-sense/pkg/database"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := database.GetDB()

	if err := database.EnsureDefaults(db); err != nil {
		log.Fatalf("Failed to bootstrap defaults: %v", err)
	}

	// Example customer: Abbas, purchased Tissot 2023-01-01
	var existing model.Customer
	err = db.Where("name = ?", "Abbas").First(&existing).Error
	if err == nil {
		fmt.Println("Sample customer already exists.")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to query customers: %v", err)
	}

	dob := time.Date(1995, time.May, 15, 0, 0, 0, 0, time.UTC)
	purchase := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	watchModel := "Tissot"
	mobile := "9999999999"
	email := "example@example.com"

	customer := model.Customer{
		Name:         "Abbas",
		DOB:          &dob,
		PurchaseDate: &purchase,
		Model:        &watchModel,
		Mobile:       &mobile,
		Email:        &email,
	}

	if err := db.Create(&customer).Error; err != nil {
		log.Fatalf("Failed to seed customer: %v", err)
	}

	fmt.Println("Seeded sample customer: Abbas")
}
