package repository

import (
	"context"
	"fmt"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/internal/models"
	"gorm.io/gorm"
)

type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users { return &Users{db: db} }

func (r *Users) find(ctx context.Context, query any, args ...any) ([]models.User, error) {
	users := []models.User{}
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if query != nil {
		q = q.Where(query, args...)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *Users) List(ctx context.Context) ([]models.User, error) { return r.find(ctx, nil) }

func (r *Users) ByRole(ctx context.Context, role string) ([]models.User, error) {
	return r.find(ctx, "role = ?", role)
}

func (r *Users) Active(ctx context.Context) ([]models.User, error) {
	return r.find(ctx, "status = ?", api.UserActive)
}

func (r *Users) Get(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Take(&u, id).Error; err != nil {
		return u, notFound(err)
	}
	return u, nil
}

func (r *Users) ByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return u, notFound(err)
	}
	return u, nil
}

// Create inserts u. The password must already be hashed.
func (r *Users) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = 0
	u.ApplyDefaults()
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return r.Get(ctx, u.ID)
}

// Update overwrites the profile of user id. The password column is only
// written when u.Password is set (already hashed).
func (r *Users) Update(ctx context.Context, id uint, u models.User) (models.User, error) {
	u.ApplyDefaults()
	omit := []string{"id", "created_at"}
	if u.Password == "" {
		omit = append(omit, "password")
	}
	res := r.db.WithContext(ctx).
		Model(&models.User{ID: id}).
		Select("*").Omit(omit...).
		Updates(&u)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("update user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.User{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Users) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
