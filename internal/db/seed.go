package db

import (
	"context"
	"fmt"
	"log"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DefaultAdminEmail    = "admin@closer-crm.fr"
	DefaultAdminPassword = "admin123"
)

// SeedOptions controls the first-run data set.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	Demo          bool // also insert demo companies
}

// Seed inserts the admin user (and optionally demo companies) when the users
// table is empty. It reports whether anything was inserted.
func Seed(ctx context.Context, d *DB, opts SeedOptions) (bool, error) {
	rows, err := d.Query(ctx, "SELECT COUNT(*) AS n FROM users")
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if len(rows) > 0 && rows[0].Int("n") > 0 {
		return false, nil
	}
	if opts.AdminEmail == "" {
		opts.AdminEmail = DefaultAdminEmail
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = DefaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	err = d.Gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin := models.User{
			Name:     "Administrateur",
			Email:    opts.AdminEmail,
			Password: string(hash),
			Role:     api.RoleAdmin,
			Level:    1,
		}
		admin.ApplyDefaults()
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		if !opts.Demo {
			return nil
		}
		demo := []models.Company{
			{Name: "TechCorp Solutions", City: "Paris", PostalCode: "75008", Country: "France", Sector: "Technologie", Size: "50-200", Manager: "Marie Dubois", Email: "contact@techcorp.fr", Phone: "01 23 45 67 89", Status: api.CompanyProspect, AssignedTo: &admin.ID},
			{Name: "Green Energy SAS", City: "Lyon", PostalCode: "69002", Country: "France", Sector: "Énergie", Size: "10-50", Manager: "Paul Martin", Email: "info@greenenergy.fr", Phone: "04 78 12 34 56", Status: api.CompanyLead},
		}
		if err := tx.Create(&demo).Error; err != nil {
			return fmt.Errorf("create demo companies: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	log.Printf("[DB] seeded admin user %s (demo=%v)", opts.AdminEmail, opts.Demo)
	return true, nil
}
