package models

import (
	"encoding/json"
	"time"

	"github.com/diewo77/go-crm/api"
)

// User is a closer or an admin.
type User struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;uniqueIndex;not null"`
	Phone     string    `gorm:"column:phone"`
	Password  string    `gorm:"column:password;not null"` // bcrypt hash, never exposed
	Role      string    `gorm:"column:role"`
	Status    string    `gorm:"column:status"`
	Avatar    string    `gorm:"column:avatar"`
	XP        int       `gorm:"column:xp"`
	Level     int       `gorm:"column:level"`
	Badges    string    `gorm:"column:badges"` // JSON array of strings
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (User) TableName() string { return "users" }

// ApplyDefaults fills the columns a new user must not leave blank.
func (u *User) ApplyDefaults() {
	if u.Role == "" {
		u.Role = api.RoleCloser
	}
	if u.Status == "" {
		u.Status = api.UserActive
	}
	if u.Level < 1 {
		u.Level = 1
	}
	if u.XP < 0 {
		u.XP = 0
	}
	if u.Badges == "" {
		u.Badges = "[]"
	}
}

// DecodeBadges parses the badges column. Malformed JSON yields an empty list.
func (u User) DecodeBadges() []string {
	badges := []string{}
	if u.Badges == "" {
		return badges
	}
	if err := json.Unmarshal([]byte(u.Badges), &badges); err != nil || badges == nil {
		return []string{}
	}
	return badges
}

// EncodeBadges stores badges as JSON text.
func EncodeBadges(badges []string) string {
	if badges == nil {
		badges = []string{}
	}
	b, _ := json.Marshal(badges)
	return string(b)
}

// API converts to the wire shape; the password hash is dropped.
func (u User) API() api.User {
	return api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		Avatar:    u.Avatar,
		XP:        u.XP,
		Level:     u.Level,
		Badges:    u.DecodeBadges(),
		CreatedAt: u.CreatedAt,
	}
}
