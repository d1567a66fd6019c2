package forms

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/client"
	"github.com/diewo77/go-crm/client/store"
)

var (
	_ Sessions     = (*store.Store)(nil)
	_ Companies    = (*store.Store)(nil)
	_ Calls        = (*store.Store)(nil)
	_ Appointments = (*store.Store)(nil)
	_ Users        = (*store.Store)(nil)
)

type toasts struct {
	ok  []string
	bad []string
}

func (t *toasts) Success(msg string) { t.ok = append(t.ok, msg) }
func (t *toasts) Error(msg string)   { t.bad = append(t.bad, msg) }

// fakeStore records what reaches it and answers with err when set.
type fakeStore struct {
	lang    string
	err     error
	updated uint
	users   []api.UserInput
}

func (s *fakeStore) Locale() string { return s.lang }

func (s *fakeStore) Login(ctx context.Context, email, password string) (api.AuthResponse, error) {
	if s.err != nil {
		return api.AuthResponse{}, s.err
	}
	return api.AuthResponse{User: api.User{ID: 1, Email: email}, Token: "tok"}, nil
}

func (s *fakeStore) CreateCompany(ctx context.Context, in api.CompanyInput) (api.Company, error) {
	if s.err != nil {
		return api.Company{}, s.err
	}
	return api.Company{ID: 1, Name: in.Name}, nil
}

func (s *fakeStore) UpdateCompany(ctx context.Context, id uint, in api.CompanyInput) (api.Company, error) {
	s.updated = id
	return api.Company{ID: id, Name: in.Name}, s.err
}

func (s *fakeStore) CreateCall(ctx context.Context, in api.CallInput) (api.Call, error) {
	return api.Call{ID: 1, Priority: in.Priority, Status: in.Status}, s.err
}

func (s *fakeStore) UpdateCall(ctx context.Context, id uint, in api.CallInput) (api.Call, error) {
	s.updated = id
	return api.Call{ID: id}, s.err
}

func (s *fakeStore) CreateAppointment(ctx context.Context, in api.AppointmentInput) (api.Appointment, error) {
	return api.Appointment{ID: 1, Status: in.Status}, s.err
}

func (s *fakeStore) UpdateAppointment(ctx context.Context, id uint, in api.AppointmentInput) (api.Appointment, error) {
	s.updated = id
	return api.Appointment{ID: id}, s.err
}

func (s *fakeStore) CreateUser(ctx context.Context, in api.UserInput) (api.User, error) {
	s.users = append(s.users, in)
	return api.User{ID: 1, Name: in.Name}, s.err
}

func (s *fakeStore) UpdateUser(ctx context.Context, id uint, in api.UserInput) (api.User, error) {
	s.updated = id
	s.users = append(s.users, in)
	return api.User{ID: id, Name: in.Name}, s.err
}

func TestLoginForm(t *testing.T) {
	st := &fakeStore{lang: "en"}
	n := &toasts{}
	f := NewLoginForm(st, n)

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, map[string]string{"email": "Required", "password": "Required"}, f.Messages())
	assert.Equal(t, []string{"Validation failed"}, n.bad)

	f.Input = api.LoginInput{Email: "admin", Password: ""}
	assert.False(t, f.Validate())
	assert.Equal(t, map[string]string{"password": "required"}, map[string]string(f.Errors))

	f.Input.Email = " admin@closer-crm.fr "
	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin@closer-crm.fr", res.User.Email)
	assert.Empty(t, f.Errors)
	assert.Equal(t, []string{"Signed in"}, n.ok)
}

func TestLoginFormServerMessage(t *testing.T) {
	apiErr := &client.APIError{Status: 401, Message: "Email ou mot de passe incorrect"}
	st := &fakeStore{lang: "fr", err: fmt.Errorf("%w: %w", client.ErrUnauthorized, apiErr)}
	n := &toasts{}
	f := NewLoginForm(st, n)
	f.Input = api.LoginInput{Email: "a@b.fr", Password: "bad"}

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, []string{"Email ou mot de passe incorrect"}, n.bad)
	assert.Empty(t, n.ok)
}

func TestFailureMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"api message", &client.APIError{Status: 500, Message: "Erreur serveur"}, "Erreur serveur"},
		{"expired session", client.ErrUnauthorized, "Session expirée, veuillez vous reconnecter"},
		{"transport", fmt.Errorf("dial tcp: refused"), "La requête a échoué"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, failureMessage("fr", tc.err))
		})
	}
}

func TestCompanyForm(t *testing.T) {
	st := &fakeStore{lang: "fr"}
	n := &toasts{}

	f := NewCompanyForm(st, n, 0)
	f.Input.GoogleRating = api.FloatOf(7)
	f.Input.Email = "nope"
	assert.False(t, f.Validate())
	assert.Equal(t, "required", f.Errors["name"])
	assert.Equal(t, "out_of_range", f.Errors["googleRating"])
	assert.Equal(t, "Email invalide", f.Messages()["email"])

	f.Input = api.CompanyInput{Name: "Acme"}
	c, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, []string{"Entreprise créée"}, n.ok)

	edit := NewCompanyForm(st, n, 4)
	edit.Input = CompanyInput(api.Company{ID: 4, Name: "Globex", Status: api.CompanyLead})
	_, err = edit.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(4), st.updated)
	assert.Equal(t, "Entreprise mise à jour", n.ok[1])
}

func TestCompanyFormServerViolations(t *testing.T) {
	st := &fakeStore{lang: "en", err: &client.APIError{
		Status: 400, Message: "Validation failed", Details: map[string]string{"name": "required"},
	}}
	n := &toasts{}
	f := NewCompanyForm(st, n, 0)
	f.Input.Name = "Acme"

	_, err := f.Submit(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "Required", f.Messages()["name"])
	assert.Equal(t, []string{"Validation failed"}, n.bad)
}

func TestCallForm(t *testing.T) {
	st := &fakeStore{lang: "en"}
	n := &toasts{}
	f := NewCallForm(st, n, 0)
	assert.Equal(t, api.PriorityNormal, f.Input.Priority)
	assert.Equal(t, api.CallScheduled, f.Input.Status)

	assert.False(t, f.Validate())
	assert.Equal(t, "required", f.Errors["companyId"])
	assert.Equal(t, "required", f.Errors["scheduledDateTime"])

	when, err := api.ParseDateTime("2024-03-01T10:00")
	require.NoError(t, err)
	f.Input.CompanyID = api.IntOf(3)
	f.Input.ScheduledDateTime = when
	f.Input.Priority = "Whenever"
	assert.False(t, f.Validate())
	assert.Equal(t, "invalid_value", f.Errors["priority"])

	f.Input.Priority = api.PriorityUrgent
	c, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.PriorityUrgent, c.Priority)
	assert.Equal(t, []string{"Call scheduled"}, n.ok)

	edit := NewCallForm(st, n, 9)
	edit.Input = CallInput(api.Call{ID: 9, CompanyID: 3, ScheduledDateTime: when, Status: api.CallDone})
	_, err = edit.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(9), st.updated)
}

func TestAppointmentForm(t *testing.T) {
	st := &fakeStore{lang: "en"}
	n := &toasts{}
	f := NewAppointmentForm(st, n, 0)
	assert.Equal(t, api.AppointmentPending, f.Input.Status)

	f.Input.CompanyID = api.IntOf(2)
	assert.False(t, f.Validate())
	assert.Equal(t, "required", f.Errors["date"])

	when, err := api.ParseDateTime("2024-03-02 09:30")
	require.NoError(t, err)
	f.Input.Date = when
	_, err = f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Appointment created"}, n.ok)

	st.err = fmt.Errorf("offline")
	edit := NewAppointmentForm(st, n, 5)
	edit.Input = AppointmentInput(api.Appointment{ID: 5, CompanyID: 2, Date: f.Input.Date})
	_, err = edit.Submit(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []string{"Request failed"}, n.bad)
}

func TestUserForm(t *testing.T) {
	st := &fakeStore{lang: "en"}
	n := &toasts{}

	f := NewUserForm(st, n, 0)
	f.Input.Name = "Zoe"
	f.Input.Email = "zoe@example.com"
	assert.False(t, f.Validate())
	assert.Equal(t, "required", f.Errors["password"])

	f.Input.Password = "secret1"
	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, st.users, 1)
	assert.Equal(t, api.RoleCloser, st.users[0].Role)

	edit := NewUserForm(st, n, 3)
	edit.Input = UserInput(api.User{ID: 3, Name: "Zoe", Email: "zoe@example.com", Role: api.RoleAdmin, Level: 2})
	assert.True(t, edit.Validate())
	_, err = edit.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(3), st.updated)
	assert.Equal(t, "", st.users[1].Password)
	assert.Equal(t, api.IntOf(2), st.users[1].Level)
	assert.Equal(t, []string{"User created", "User updated"}, n.ok)
}
