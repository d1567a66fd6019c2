// Package api defines the JSON shapes exchanged between the CRM server and its clients.
package api

import "time"

// Enumerations accepted by the API.
const (
	RoleCloser = "closer"
	RoleAdmin  = "admin"

	UserActive   = "active"
	UserInactive = "inactive"

	CompanyProspect = "Prospect"
	CompanyLead     = "Lead"
	CompanyClient   = "Client"

	PriorityLow    = "Basse"
	PriorityNormal = "Normal"
	PriorityHigh   = "Haute"
	PriorityUrgent = "Urgente"

	CallScheduled  = "Programmé"
	CallInProgress = "En cours"
	CallDone       = "Terminé"
	CallCancelled  = "Annulé"

	AppointmentPending   = "En attente"
	AppointmentConfirmed = "Confirmé"
	AppointmentCancelled = "Annulé"
)

var (
	Roles               = []string{RoleCloser, RoleAdmin}
	UserStatuses        = []string{UserActive, UserInactive}
	CompanyStatuses     = []string{CompanyProspect, CompanyLead, CompanyClient}
	CallPriorities      = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}
	CallStatuses        = []string{CallScheduled, CallInProgress, CallDone, CallCancelled}
	AppointmentStatuses = []string{AppointmentPending, AppointmentConfirmed, AppointmentCancelled}
)

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Avatar    string    `json:"avatar"`
	XP        int       `json:"xp"`
	Level     int       `json:"level"`
	Badges    []string  `json:"badges"`
	CreatedAt time.Time `json:"createdAt"`
}

type Company struct {
	ID                 uint      `json:"id"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone"`
	City               string    `json:"city"`
	PostalCode         string    `json:"postalCode"`
	Country            string    `json:"country"`
	Siren              string    `json:"siren"`
	Manager            string    `json:"manager"`
	Sector             string    `json:"sector"`
	Email              string    `json:"email"`
	Website            string    `json:"website"`
	Size               string    `json:"size"`
	Notes              string    `json:"notes"`
	GoogleRating       NullFloat `json:"googleRating"`
	GoogleReviewsCount NullInt   `json:"googleReviewsCount"`
	Status             string    `json:"status"`
	AssignedTo         NullInt   `json:"assignedTo"`
	AssignedToName     string    `json:"assignedToName,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

type Call struct {
	ID                uint      `json:"id"`
	CompanyID         uint      `json:"companyId"`
	CompanyName       string    `json:"companyName,omitempty"`
	Type              string    `json:"type"`
	ScheduledDateTime DateTime  `json:"scheduledDateTime"`
	Notes             string    `json:"notes"`
	Priority          string    `json:"priority"`
	Status            string    `json:"status"`
	UserID            NullInt   `json:"userId"`
	UserName          string    `json:"userName,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type Appointment struct {
	ID          uint      `json:"id"`
	CompanyID   uint      `json:"companyId"`
	CompanyName string    `json:"companyName,omitempty"`
	Date        DateTime  `json:"date"`
	Briefing    string    `json:"briefing"`
	Status      string    `json:"status"`
	UserID      NullInt   `json:"userId"`
	UserName    string    `json:"userName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Request bodies. Validation rules live in the struct tags.

// LoginInput takes any non-empty email; a malformed one is an unknown account.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
}

type CompanyInput struct {
	Name               string    `json:"name" validate:"required"`
	Phone              string    `json:"phone"`
	City               string    `json:"city"`
	PostalCode         string    `json:"postalCode"`
	Country            string    `json:"country"`
	Siren              string    `json:"siren"`
	Manager            string    `json:"manager"`
	Sector             string    `json:"sector"`
	Email              string    `json:"email" validate:"omitempty,email"`
	Website            string    `json:"website"`
	Size               string    `json:"size"`
	Notes              string    `json:"notes"`
	GoogleRating       NullFloat `json:"googleRating" validate:"omitempty,gte=0,lte=5"`
	GoogleReviewsCount NullInt   `json:"googleReviewsCount" validate:"omitempty,gte=0"`
	Status             string    `json:"status" validate:"omitempty,company_status"`
	AssignedTo         NullInt   `json:"assignedTo" validate:"omitempty,gt=0"`
}

type CallInput struct {
	CompanyID         NullInt  `json:"companyId" validate:"required,gt=0"`
	Type              string   `json:"type"`
	ScheduledDateTime DateTime `json:"scheduledDateTime" validate:"required"`
	Notes             string   `json:"notes"`
	Priority          string   `json:"priority" validate:"omitempty,call_priority"`
	Status            string   `json:"status" validate:"omitempty,call_status"`
	UserID            NullInt  `json:"userId" validate:"omitempty,gt=0"`
}

type AppointmentInput struct {
	CompanyID NullInt  `json:"companyId" validate:"required,gt=0"`
	Date      DateTime `json:"date" validate:"required"`
	Briefing  string   `json:"briefing"`
	Status    string   `json:"status" validate:"omitempty,appointment_status"`
	UserID    NullInt  `json:"userId" validate:"omitempty,gt=0"`
}

// UserInput is used for both create and update; Password is mandatory on create only.
type UserInput struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Phone    string   `json:"phone"`
	Password string   `json:"password,omitempty"`
	Role     string   `json:"role" validate:"omitempty,user_role"`
	Status   string   `json:"status" validate:"omitempty,user_status"`
	Avatar   string   `json:"avatar"`
	XP       NullInt  `json:"xp" validate:"omitempty,gte=0"`
	Level    NullInt  `json:"level" validate:"omitempty,gte=1"`
	Badges   []string `json:"badges"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type VerifyResponse struct {
	User User `json:"user"`
}

type DeleteResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}
