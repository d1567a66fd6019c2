package repository

import (
	"context"
	"fmt"

	"github.com/diewo77/go-crm/internal/models"
	"gorm.io/gorm"
)

type Companies struct {
	db *gorm.DB
}

func NewCompanies(db *gorm.DB) *Companies { return &Companies{db: db} }

func (r *Companies) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("companies AS c").
		Select("c.*, COALESCE(u.name, '') AS assigned_to_name").
		Joins("LEFT JOIN users u ON u.id = c.assigned_to")
}

// List returns every company, newest first.
func (r *Companies) List(ctx context.Context) ([]models.CompanyRow, error) {
	rows := []models.CompanyRow{}
	if err := r.joined(ctx).Order("c.created_at DESC, c.id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return rows, nil
}

// Search matches term case-insensitively against name, city, sector, manager and email.
func (r *Companies) Search(ctx context.Context, term string) ([]models.CompanyRow, error) {
	like := likePattern(term)
	rows := []models.CompanyRow{}
	err := r.joined(ctx).
		Where("LOWER(c.name) LIKE ? OR LOWER(c.city) LIKE ? OR LOWER(c.sector) LIKE ? OR LOWER(c.manager) LIKE ? OR LOWER(c.email) LIKE ?",
			like, like, like, like, like).
		Order("c.created_at DESC, c.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search companies: %w", err)
	}
	return rows, nil
}

func (r *Companies) Get(ctx context.Context, id uint) (models.CompanyRow, error) {
	var row models.CompanyRow
	if err := r.joined(ctx).Where("c.id = ?", id).Take(&row).Error; err != nil {
		return row, notFound(err)
	}
	return row, nil
}

// Create inserts c and returns it re-read with its joined columns.
func (r *Companies) Create(ctx context.Context, c models.Company) (models.CompanyRow, error) {
	c.ID = 0
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return models.CompanyRow{}, fmt.Errorf("create company: %w", err)
	}
	return r.Get(ctx, c.ID)
}

// Update overwrites every column of company id with c.
func (r *Companies) Update(ctx context.Context, id uint, c models.Company) (models.CompanyRow, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Company{ID: id}).
		Select("*").Omit("id", "created_at").
		Updates(&c)
	if res.Error != nil {
		return models.CompanyRow{}, fmt.Errorf("update company %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.CompanyRow{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Companies) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Company{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete company %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
