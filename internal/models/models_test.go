package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/diewo77/go-crm/api"
)

func TestUser_DecodeBadges(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"valid", `["first_call","closer_of_the_month"]`, []string{"first_call", "closer_of_the_month"}},
		{"empty column", "", []string{}},
		{"malformed", `["oops"`, []string{}},
		{"json null", `null`, []string{}},
		{"not a list", `{"a":1}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := User{Badges: tt.raw}.DecodeBadges()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeBadges() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestUser_APIHidesPassword(t *testing.T) {
	u := User{ID: 1, Email: "a@b.c", Password: "$2a$10$hash", Badges: "not json"}
	b, err := json.Marshal(u.API())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if _, ok := m["password"]; ok {
		t.Errorf("password leaked: %s", b)
	}
	if badges, ok := m["badges"].([]any); !ok || len(badges) != 0 {
		t.Errorf("badges = %#v, want empty list", m["badges"])
	}
}

func TestUser_ApplyDefaults(t *testing.T) {
	u := User{}
	u.ApplyDefaults()
	if u.Role != api.RoleCloser || u.Status != api.UserActive || u.Level != 1 || u.XP != 0 || u.Badges != "[]" {
		t.Errorf("unexpected defaults %+v", u)
	}
}

func TestEncodeBadges(t *testing.T) {
	if got := EncodeBadges(nil); got != "[]" {
		t.Errorf("EncodeBadges(nil) = %s", got)
	}
	if got := EncodeBadges([]string{"a"}); got != `["a"]` {
		t.Errorf("EncodeBadges = %s", got)
	}
}

func TestCompanyFromInput(t *testing.T) {
	c := CompanyFromInput(api.CompanyInput{Name: "Acme", AssignedTo: api.IntOf(3)})
	if c.Status != api.CompanyProspect {
		t.Errorf("Status = %q, want Prospect", c.Status)
	}
	if c.GoogleRating != nil || c.GoogleReviewsCount != nil {
		t.Errorf("blank google fields must stay NULL")
	}
	if c.AssignedTo == nil || *c.AssignedTo != 3 {
		t.Errorf("AssignedTo = %v", c.AssignedTo)
	}
}

func TestCompanyRow_API(t *testing.T) {
	rating := 4.6
	row := CompanyRow{Company: Company{ID: 9, Name: "Acme", GoogleRating: &rating}, AssignedToName: "Léa"}
	got := row.API()
	if got.GoogleRating != api.FloatOf(4.6) || got.GoogleReviewsCount.Valid || got.AssignedTo.Valid {
		t.Errorf("unexpected nullable mapping %+v", got)
	}
	if got.AssignedToName != "Léa" {
		t.Errorf("AssignedToName = %q", got.AssignedToName)
	}
}

func TestCallFromInput_Defaults(t *testing.T) {
	at := api.NewDateTime(time.Date(2025, 5, 2, 14, 0, 0, 0, time.UTC))
	c := CallFromInput(api.CallInput{CompanyID: api.IntOf(2), ScheduledDateTime: at}, 7)
	if c.Status != api.CallScheduled || c.Priority != api.PriorityNormal {
		t.Errorf("unexpected defaults %+v", c)
	}
	if c.UserID == nil || *c.UserID != 7 {
		t.Errorf("expected fallback user 7, got %v", c.UserID)
	}
	explicit := CallFromInput(api.CallInput{CompanyID: api.IntOf(2), ScheduledDateTime: at, UserID: api.IntOf(4)}, 7)
	if *explicit.UserID != 4 {
		t.Errorf("explicit user overridden: %v", *explicit.UserID)
	}
}

func TestAppointmentRow_API(t *testing.T) {
	when := time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC)
	row := AppointmentRow{Appointment: Appointment{ID: 1, CompanyID: 2, Date: when, Status: api.AppointmentConfirmed}, CompanyName: "Acme"}
	got := row.API()
	if got.Date.String() != "2025-05-02T09:30:00" {
		t.Errorf("Date = %s", got.Date)
	}
	if got.UserID.Valid {
		t.Errorf("expected null user")
	}
	a := AppointmentFromInput(api.AppointmentInput{CompanyID: api.IntOf(2), Date: api.NewDateTime(when)}, 0)
	if a.Status != api.AppointmentPending || a.UserID != nil {
		t.Errorf("unexpected appointment %+v", a)
	}
}
