package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"gorm.io/gorm"
)

type Calls struct {
	db *gorm.DB
}

func NewCalls(db *gorm.DB) *Calls { return &Calls{db: db} }

func (r *Calls) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("calls AS cl").
		Select("cl.*, COALESCE(co.name, '') AS company_name, COALESCE(u.name, '') AS user_name").
		Joins("LEFT JOIN companies co ON co.id = cl.company_id").
		Joins("LEFT JOIN users u ON u.id = cl.user_id").
		Order("cl.scheduled_date_time DESC, cl.id DESC")
}

func (r *Calls) List(ctx context.Context) ([]models.CallRow, error) {
	rows := []models.CallRow{}
	if err := r.joined(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	return rows, nil
}

func (r *Calls) ByCompany(ctx context.Context, companyID uint) ([]models.CallRow, error) {
	rows := []models.CallRow{}
	if err := r.joined(ctx).Where("cl.company_id = ?", companyID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list calls of company %d: %w", companyID, err)
	}
	return rows, nil
}

func (r *Calls) Get(ctx context.Context, id uint) (models.CallRow, error) {
	var row models.CallRow
	if err := r.joined(ctx).Where("cl.id = ?", id).Take(&row).Error; err != nil {
		return row, notFound(err)
	}
	return row, nil
}

func (r *Calls) Create(ctx context.Context, c models.Call) (models.CallRow, error) {
	c.ID = 0
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return models.CallRow{}, fmt.Errorf("create call: %w", err)
	}
	return r.Get(ctx, c.ID)
}

func (r *Calls) Update(ctx context.Context, id uint, c models.Call) (models.CallRow, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Call{ID: id}).
		Select("*").Omit("id", "created_at").
		Updates(&c)
	if res.Error != nil {
		return models.CallRow{}, fmt.Errorf("update call %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.CallRow{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Calls) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Call{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete call %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type Appointments struct {
	db *gorm.DB
}

func NewAppointments(db *gorm.DB) *Appointments { return &Appointments{db: db} }

func (r *Appointments) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("appointments AS a").
		Select("a.*, COALESCE(co.name, '') AS company_name, COALESCE(u.name, '') AS user_name").
		Joins("LEFT JOIN companies co ON co.id = a.company_id").
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Order("a.date DESC, a.id DESC")
}

func (r *Appointments) List(ctx context.Context) ([]models.AppointmentRow, error) {
	rows := []models.AppointmentRow{}
	if err := r.joined(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return rows, nil
}

func (r *Appointments) ByCompany(ctx context.Context, companyID uint) ([]models.AppointmentRow, error) {
	rows := []models.AppointmentRow{}
	if err := r.joined(ctx).Where("a.company_id = ?", companyID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list appointments of company %d: %w", companyID, err)
	}
	return rows, nil
}

// Today returns the appointments falling on the UTC calendar day of now.
func (r *Appointments) Today(ctx context.Context, now time.Time) ([]models.AppointmentRow, error) {
	start, end := DayBounds(now)
	rows := []models.AppointmentRow{}
	if err := r.joined(ctx).Where("a.date >= ? AND a.date < ?", start, end).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list today's appointments: %w", err)
	}
	return rows, nil
}

func (r *Appointments) Get(ctx context.Context, id uint) (models.AppointmentRow, error) {
	var row models.AppointmentRow
	if err := r.joined(ctx).Where("a.id = ?", id).Take(&row).Error; err != nil {
		return row, notFound(err)
	}
	return row, nil
}

func (r *Appointments) Create(ctx context.Context, a models.Appointment) (models.AppointmentRow, error) {
	a.ID = 0
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return models.AppointmentRow{}, fmt.Errorf("create appointment: %w", err)
	}
	return r.Get(ctx, a.ID)
}

func (r *Appointments) Update(ctx context.Context, id uint, a models.Appointment) (models.AppointmentRow, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{ID: id}).
		Select("*").Omit("id", "created_at").
		Updates(&a)
	if res.Error != nil {
		return models.AppointmentRow{}, fmt.Errorf("update appointment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.AppointmentRow{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Appointments) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete appointment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DayBounds returns [00:00, next 00:00) of the UTC day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
