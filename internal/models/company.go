package models

import (
	"time"

	"github.com/diewo77/go-crm/api"
)

// Company is a prospect, lead or client.
type Company struct {
	ID                 uint      `gorm:"primaryKey;column:id"`
	Name               string    `gorm:"column:name;not null"`
	Phone              string    `gorm:"column:phone"`
	City               string    `gorm:"column:city"`
	PostalCode         string    `gorm:"column:postal_code"`
	Country            string    `gorm:"column:country"`
	Siren              string    `gorm:"column:siren"`
	Manager            string    `gorm:"column:manager"`
	Sector             string    `gorm:"column:sector"`
	Email              string    `gorm:"column:email"`
	Website            string    `gorm:"column:website"`
	Size               string    `gorm:"column:size"`
	Notes              string    `gorm:"column:notes"`
	GoogleRating       *float64  `gorm:"column:google_rating"`
	GoogleReviewsCount *int      `gorm:"column:google_reviews_count"`
	Status             string    `gorm:"column:status"`
	AssignedTo         *uint     `gorm:"column:assigned_to"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

func (Company) TableName() string { return "companies" }

// CompanyRow is a company joined with the name of its assigned closer.
type CompanyRow struct {
	Company
	AssignedToName string `gorm:"->;column:assigned_to_name"`
}

// CompanyFromInput maps a request body onto a row, applying defaults.
func CompanyFromInput(in api.CompanyInput) Company {
	c := Company{
		Name:               in.Name,
		Phone:              in.Phone,
		City:               in.City,
		PostalCode:         in.PostalCode,
		Country:            in.Country,
		Siren:              in.Siren,
		Manager:            in.Manager,
		Sector:             in.Sector,
		Email:              in.Email,
		Website:            in.Website,
		Size:               in.Size,
		Notes:              in.Notes,
		GoogleRating:       in.GoogleRating.Ptr(),
		GoogleReviewsCount: in.GoogleReviewsCount.IntPtr(),
		Status:             in.Status,
		AssignedTo:         in.AssignedTo.UintPtr(),
	}
	if c.Status == "" {
		c.Status = api.CompanyProspect
	}
	return c
}

func (r CompanyRow) API() api.Company {
	c := r.Company
	out := api.Company{
		ID:             c.ID,
		Name:           c.Name,
		Phone:          c.Phone,
		City:           c.City,
		PostalCode:     c.PostalCode,
		Country:        c.Country,
		Siren:          c.Siren,
		Manager:        c.Manager,
		Sector:         c.Sector,
		Email:          c.Email,
		Website:        c.Website,
		Size:           c.Size,
		Notes:          c.Notes,
		Status:         c.Status,
		AssignedToName: r.AssignedToName,
		CreatedAt:      c.CreatedAt,
	}
	if c.GoogleRating != nil {
		out.GoogleRating = api.FloatOf(*c.GoogleRating)
	}
	if c.GoogleReviewsCount != nil {
		out.GoogleReviewsCount = api.IntOf(int64(*c.GoogleReviewsCount))
	}
	if c.AssignedTo != nil {
		out.AssignedTo = api.IntOf(int64(*c.AssignedTo))
	}
	return out
}
