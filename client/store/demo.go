package store

import (
	"time"

	"github.com/diewo77/go-crm/api"
)

// DemoState is the content shown before the first Load: a handful of records
// matching the server demo seed, French locale, system theme.
func DemoState() State {
	created := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	at := func(day, hour int) api.DateTime {
		return api.NewDateTime(time.Date(2024, 2, day, hour, 0, 0, 0, time.UTC))
	}
	admin := api.IntOf(1)
	return State{
		Companies: []Item[api.Company]{
			{Key: 1, Value: api.Company{
				ID: 1, Name: "TechCorp Solutions", City: "Paris", PostalCode: "75008", Country: "France",
				Sector: "Technologie", Size: "50-200", Manager: "Marie Dubois", Email: "contact@techcorp.fr",
				Phone: "01 23 45 67 89", Status: api.CompanyProspect, AssignedTo: admin,
				AssignedToName: "Administrateur", CreatedAt: created,
			}},
			{Key: 2, Value: api.Company{
				ID: 2, Name: "Green Energy SAS", City: "Lyon", PostalCode: "69002", Country: "France",
				Sector: "Énergie", Size: "10-50", Manager: "Paul Martin", Email: "info@greenenergy.fr",
				Phone: "04 78 12 34 56", Status: api.CompanyLead, CreatedAt: created,
			}},
		},
		Calls: []Item[api.Call]{
			{Key: 1, Value: api.Call{
				ID: 1, CompanyID: 1, CompanyName: "TechCorp Solutions", Type: "Prospection",
				ScheduledDateTime: at(1, 10), Notes: "Premier contact", Priority: api.PriorityHigh,
				Status: api.CallScheduled, UserID: admin, UserName: "Administrateur", CreatedAt: created,
			}},
		},
		Appointments: []Item[api.Appointment]{
			{Key: 1, Value: api.Appointment{
				ID: 1, CompanyID: 2, CompanyName: "Green Energy SAS", Date: at(5, 14),
				Briefing: "Présentation de l'offre", Status: api.AppointmentPending,
				UserID: admin, UserName: "Administrateur", CreatedAt: created,
			}},
		},
		Users: []Item[api.User]{
			{Key: 1, Value: api.User{
				ID: 1, Name: "Administrateur", Email: "admin@closer-crm.fr", Role: api.RoleAdmin,
				Status: api.UserActive, Level: 1, Badges: []string{}, CreatedAt: created,
			}},
		},
		Theme:  ThemeSystem,
		Locale: "fr",
	}
}
