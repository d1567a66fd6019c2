package models

import (
	"time"

	"github.com/diewo77/go-crm/api"
)

// Call is a scheduled phone call with a company.
type Call struct {
	ID                uint      `gorm:"primaryKey;column:id"`
	CompanyID         uint      `gorm:"column:company_id;not null"`
	Type              string    `gorm:"column:type"`
	ScheduledDateTime time.Time `gorm:"column:scheduled_date_time;not null"`
	Notes             string    `gorm:"column:notes"`
	Priority          string    `gorm:"column:priority"`
	Status            string    `gorm:"column:status"`
	UserID            *uint     `gorm:"column:user_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (Call) TableName() string { return "calls" }

// CallRow is a call joined with company and user names.
type CallRow struct {
	Call
	CompanyName string `gorm:"->;column:company_name"`
	UserName    string `gorm:"->;column:user_name"`
}

// CallFromInput maps a request body onto a row. fallbackUser is used when the
// body has no userId.
func CallFromInput(in api.CallInput, fallbackUser uint) Call {
	c := Call{
		CompanyID:         uint(in.CompanyID.Int),
		Type:              in.Type,
		ScheduledDateTime: in.ScheduledDateTime.Time,
		Notes:             in.Notes,
		Priority:          in.Priority,
		Status:            in.Status,
		UserID:            in.UserID.UintPtr(),
	}
	if c.Priority == "" {
		c.Priority = api.PriorityNormal
	}
	if c.Status == "" {
		c.Status = api.CallScheduled
	}
	if c.UserID == nil && fallbackUser != 0 {
		c.UserID = &fallbackUser
	}
	return c
}

func (r CallRow) API() api.Call {
	return api.Call{
		ID:                r.ID,
		CompanyID:         r.CompanyID,
		CompanyName:       r.CompanyName,
		Type:              r.Type,
		ScheduledDateTime: api.NewDateTime(r.ScheduledDateTime),
		Notes:             r.Notes,
		Priority:          r.Priority,
		Status:            r.Status,
		UserID:            optionalID(r.UserID),
		UserName:          r.UserName,
		CreatedAt:         r.CreatedAt,
	}
}

// Appointment is a meeting booked with a company.
type Appointment struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	CompanyID uint      `gorm:"column:company_id;not null"`
	Date      time.Time `gorm:"column:date;not null"`
	Briefing  string    `gorm:"column:briefing"`
	Status    string    `gorm:"column:status"`
	UserID    *uint     `gorm:"column:user_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Appointment) TableName() string { return "appointments" }

// AppointmentRow is an appointment joined with company and user names.
type AppointmentRow struct {
	Appointment
	CompanyName string `gorm:"->;column:company_name"`
	UserName    string `gorm:"->;column:user_name"`
}

// AppointmentFromInput maps a request body onto a row.
func AppointmentFromInput(in api.AppointmentInput, fallbackUser uint) Appointment {
	a := Appointment{
		CompanyID: uint(in.CompanyID.Int),
		Date:      in.Date.Time,
		Briefing:  in.Briefing,
		Status:    in.Status,
		UserID:    in.UserID.UintPtr(),
	}
	if a.Status == "" {
		a.Status = api.AppointmentPending
	}
	if a.UserID == nil && fallbackUser != 0 {
		a.UserID = &fallbackUser
	}
	return a
}

func (r AppointmentRow) API() api.Appointment {
	return api.Appointment{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		CompanyName: r.CompanyName,
		Date:        api.NewDateTime(r.Date),
		Briefing:    r.Briefing,
		Status:      r.Status,
		UserID:      optionalID(r.UserID),
		UserName:    r.UserName,
		CreatedAt:   r.CreatedAt,
	}
}

func optionalID(id *uint) api.NullInt {
	if id == nil {
		return api.NullInt{}
	}
	return api.IntOf(int64(*id))
}
