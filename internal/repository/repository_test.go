package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/internal/config"
	"github.com/diewo77/go-crm/internal/db"
	"github.com/diewo77/go-crm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	d, err := db.Open(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:repo_" + name + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, db.Bootstrap(context.Background(), d))
	return d
}

func createUser(t *testing.T, users *Users, name, email, role string) models.User {
	t.Helper()
	u, err := users.Create(context.Background(), models.User{Name: name, Email: email, Password: "hash", Role: role})
	require.NoError(t, err)
	return u
}

func TestCompaniesCRUD(t *testing.T) {
	ctx := context.Background()
	d := setupTestDB(t)
	users := NewUsers(d.Gorm)
	companies := NewCompanies(d.Gorm)
	lea := createUser(t, users, "Léa", "lea@example.com", api.RoleCloser)

	in := api.CompanyInput{Name: "Acme", City: "Paris", Sector: "Industrie", AssignedTo: api.IntOf(int64(lea.ID))}
	created, err := companies.Create(ctx, models.CompanyFromInput(in))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, api.CompanyProspect, created.Status)
	assert.Equal(t, "Léa", created.AssignedToName)
	assert.Nil(t, created.GoogleRating)

	in.Status = api.CompanyClient
	in.GoogleRating = api.FloatOf(4.5)
	in.AssignedTo = api.NullInt{}
	updated, err := companies.Update(ctx, created.ID, models.CompanyFromInput(in))
	require.NoError(t, err)
	assert.Equal(t, api.CompanyClient, updated.Status)
	require.NotNil(t, updated.GoogleRating)
	assert.Equal(t, 4.5, *updated.GoogleRating)
	assert.Nil(t, updated.AssignedTo)
	assert.Empty(t, updated.AssignedToName)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	list, err := companies.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, companies.Delete(ctx, created.ID))
	_, err = companies.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompaniesMissing(t *testing.T) {
	ctx := context.Background()
	d := setupTestDB(t)
	companies := NewCompanies(d.Gorm)

	_, err := companies.Update(ctx, 999, models.Company{Name: "Ghost", Status: api.CompanyLead})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, companies.Delete(ctx, 999), ErrNotFound)

	var n int64
	d.Gorm.Model(&models.Company{}).Count(&n)
	assert.Zero(t, n)
}

func TestCompaniesSearch(t *testing.T) {
	ctx := context.Background()
	d := setupTestDB(t)
	companies := NewCompanies(d.Gorm)
	for _, c := range []models.Company{
		{Name: "Boulangerie Dupont", City: "Lyon", Sector: "Alimentation", Status: api.CompanyProspect},
		{Name: "Acme", City: "Paris", Manager: "Jean Lyonnais", Status: api.CompanyLead},
		{Name: "Globex", City: "Nantes", Email: "contact@globex.fr", Status: api.CompanyClient},
	} {
		_, err := companies.Create(ctx, c)
		require.NoError(t, err)
	}

	got, err := companies.Search(ctx, "LYON")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = companies.Search(ctx, "globex.fr")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Globex", got[0].Name)

	got, err = companies.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCallsRequireExistingCompany(t *testing.T) {
	ctx := context.Background()
	d := setupTestDB(t)
	calls := NewCalls(d.Gorm)

	_, err := calls.Create(ctx, models.Call{CompanyID: 4242, ScheduledDateTime: time.Now().UTC(), Status: api.CallScheduled, Priority: api.PriorityNormal})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	var n int64
	d.Gorm.Model(&models.Call{}).Count(&n)
	assert.Zero(t, n)
}

func TestCallsByCompany(t *testing.T) {
	ctx := context.Background()
	d := setupTestDB(t)
	users := NewUsers(d.Gorm)
	companies := NewCompanies(d.Gorm)
	calls := NewCalls(d.Gorm)
	u := createUser(t, users, "Marc", "marc@example.com", api.RoleCloser)
	acme, _ := companies.Create(ctx, models.Company{Name: "Acme", Status: api.CompanyProspect})
	other, _ := companies.Create(ctx, models.Company{Name: "Other", Status: api.CompanyProspect})

	early := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)
	in := api.CallInput{CompanyID: api.IntOf(int64(acme.ID)), ScheduledDateTime: api.NewDateTime(early)}
	first, err := calls.Create(ctx, models.CallFromInput(in, u.ID))
	require.NoError(t, err)
	assert.Equal(t, "Acme", first.CompanyName)
	assert.Equal(t, "Marc", first.UserName)
	assert.Equal(t, api.CallScheduled, first.Status)

	in.ScheduledDateTime = api.NewDateTime(late)
	_, err = calls.Create(ctx, models.CallFromInput(in, u.ID))
	require.NoError(t, err)
	_, err = calls.Create(ctx, models.Call{CompanyID: other.ID, ScheduledDateTime: late, Status: api.CallDone, Priority: api.PriorityHigh})
	require.NoError(t, err)

	got, err := calls.ByCompany(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].ScheduledDateTime.Equal(late), "newest first")

	all, err := calls.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = calls.Update(ctx, 9999, models.Call{CompanyID: acme.ID, ScheduledDateTime: late})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppointmentsToday(t *testing.T) {
	ctx := context.Background()
	d := setupTestDB(t)
	companies := NewCompanies(d.Gorm)
	appts := NewAppointments(d.Gorm)
	acme, _ := companies.Create(ctx, models.Company{Name: "Acme", Status: api.CompanyProspect})

	now := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{
		time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 3, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 2, 23, 59, 59, 0, time.UTC),
	} {
		_, err := appts.Create(ctx, models.Appointment{CompanyID: acme.ID, Date: at, Status: api.AppointmentPending})
		require.NoError(t, err)
	}

	got, err := appts.Today(ctx, now)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	byCompany, err := appts.ByCompany(ctx, acme.ID)
	require.NoError(t, err)
	assert.Len(t, byCompany, 4)
}

func TestUsersDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	d := setupTestDB(t)
	users := NewUsers(d.Gorm)
	createUser(t, users, "A", "dup@example.com", "")

	_, err := users.Create(ctx, models.User{Name: "B", Email: "dup@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUsersUpdateKeepsPassword(t *testing.T) {
	ctx := context.Background()
	d := setupTestDB(t)
	users := NewUsers(d.Gorm)
	u := createUser(t, users, "A", "a@example.com", "")
	assert.Equal(t, api.RoleCloser, u.Role)
	assert.Equal(t, 1, u.Level)

	u.Name = "Alice"
	u.Password = ""
	got, err := users.Update(ctx, u.ID, u)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "hash", got.Password)

	_, err = users.Update(ctx, 999, u)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsersFilters(t *testing.T) {
	ctx := context.Background()
	d := setupTestDB(t)
	users := NewUsers(d.Gorm)
	createUser(t, users, "Admin", "admin@example.com", api.RoleAdmin)
	c := createUser(t, users, "Closer", "closer@example.com", api.RoleCloser)
	c.Status = api.UserInactive
	_, err := users.Update(ctx, c.ID, c)
	require.NoError(t, err)

	admins, err := users.ByRole(ctx, api.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)

	active, err := users.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Admin", active[0].Name)

	found, err := users.ByEmail(ctx, "closer@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)
	_, err = users.ByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, isUniqueViolation(errors.New("duplicate column name: notes")))
	assert.False(t, isUniqueViolation(errors.New("UNIQUE index rebuild interrupted")))
}
