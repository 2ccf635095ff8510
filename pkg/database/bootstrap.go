package database

import (
	"errors"

	"github.com/Abbaskay/watch-sense/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// DefaultTenantName is the demo tenant created on first startup.
	DefaultTenantName = "Default Watch Shop"

	defaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "admin123"
)

// EnsureDefaults makes sure exactly one default tenant and one default
// administrative user exist. Check-then-insert is acceptable here: the
// race only exists at first boot of a single-process demo deployment.
func EnsureDefaults(db *gorm.DB) error {
	var tenant model.Tenant
	err := db.Where("name = ?", DefaultTenantName).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		email := "owner@example.com"
		mobile := "9999999999"
		tenant = model.Tenant{
			Name:   DefaultTenantName,
			Email:  &email,
			Mobile: &mobile,
		}
		if err := db.Create(&tenant).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var admin model.User
	err = db.Where("email = ?", defaultAdminEmail).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin = model.User{
			TenantID:     tenant.ID,
			Email:        defaultAdminEmail,
			PasswordHash: string(hash),
			Role:         "owner",
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return nil
}

// DefaultTenant returns the bootstrap tenant.
func DefaultTenant(db *gorm.DB) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := db.Where("name = ?", DefaultTenantName).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}
