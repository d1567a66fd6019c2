package store

import (
	"context"
	"strings"
	"time"

	"github.com/diewo77/go-crm/api"
)

// collection selects one slice of the state.
type collection[T any] func(st *State) *[]Item[T]

var (
	companies    collection[api.Company]     = func(st *State) *[]Item[api.Company] { return &st.Companies }
	calls        collection[api.Call]        = func(st *State) *[]Item[api.Call] { return &st.Calls }
	appointments collection[api.Appointment] = func(st *State) *[]Item[api.Appointment] { return &st.Appointments }
	users        collection[api.User]        = func(st *State) *[]Item[api.User] { return &st.Users }
)

func indexOf[T any](list []Item[T], key int64) int {
	for i, it := range list {
		if it.Key == key {
			return i
		}
	}
	return -1
}

// create inserts draft under a fresh negative key, sends it, then swaps the
// provisional entry for the server record. The entry is dropped on failure.
func create[T any](ctx context.Context, s *Store, col collection[T], draft T, send func(context.Context) (T, error), id func(T) uint) (T, error) {
	key := s.tempKey()
	s.mutate(func(st *State) {
		list := col(st)
		*list = append([]Item[T]{{Key: key, Pending: true, Value: draft}}, *list...)
	})

	saved, err := send(ctx)
	s.mutate(func(st *State) {
		list := col(st)
		i := indexOf(*list, key)
		if i < 0 {
			return
		}
		if err != nil {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
		(*list)[i] = Item[T]{Key: int64(id(saved)), Value: saved}
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return saved, nil
}

// update applies patch to the local record, sends it and stores the server
// answer. The previous value comes back when the API refuses the change.
func update[T any](ctx context.Context, s *Store, col collection[T], key int64, patch func(T) T, send func(context.Context) (T, error)) (T, error) {
	var (
		prev  T
		found bool
	)
	s.mutate(func(st *State) {
		list := col(st)
		if i := indexOf(*list, key); i >= 0 {
			prev, found = (*list)[i].Value, true
			(*list)[i].Value = patch(prev)
		}
	})

	saved, err := send(ctx)
	s.mutate(func(st *State) {
		list := col(st)
		i := indexOf(*list, key)
		switch {
		case err == nil && i >= 0:
			(*list)[i] = Item[T]{Key: key, Value: saved}
		case err == nil:
			*list = append([]Item[T]{{Key: key, Value: saved}}, *list...)
		case found && i >= 0:
			(*list)[i].Value = prev
		}
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return saved, nil
}

// remove drops the record at once and puts it back at its position when the
// API refuses the delete.
func remove[T any](ctx context.Context, s *Store, col collection[T], key int64, send func(context.Context) error) error {
	var (
		prev Item[T]
		pos  = -1
	)
	s.mutate(func(st *State) {
		list := col(st)
		if i := indexOf(*list, key); i >= 0 {
			prev, pos = (*list)[i], i
			*list = append((*list)[:i], (*list)[i+1:]...)
		}
	})

	err := send(ctx)
	if err != nil && pos >= 0 {
		s.mutate(func(st *State) {
			list := col(st)
			if indexOf(*list, key) >= 0 {
				return
			}
			i := min(pos, len(*list))
			*list = append((*list)[:i], append([]Item[T]{prev}, (*list)[i:]...)...)
		})
	}
	return err
}

func (s *Store) CreateCompany(ctx context.Context, in api.CompanyInput) (api.Company, error) {
	return create(ctx, s, companies, applyCompany(api.Company{Status: api.CompanyProspect, CreatedAt: time.Now().UTC()}, in),
		func(ctx context.Context) (api.Company, error) { return s.api.CreateCompany(ctx, in) },
		func(c api.Company) uint { return c.ID })
}

func (s *Store) UpdateCompany(ctx context.Context, id uint, in api.CompanyInput) (api.Company, error) {
	return update(ctx, s, companies, int64(id),
		func(c api.Company) api.Company { return applyCompany(c, in) },
		func(ctx context.Context) (api.Company, error) { return s.api.UpdateCompany(ctx, id, in) })
}

func (s *Store) DeleteCompany(ctx context.Context, id uint) error {
	return remove(ctx, s, companies, int64(id), func(ctx context.Context) error { return s.api.DeleteCompany(ctx, id) })
}

func (s *Store) CreateCall(ctx context.Context, in api.CallInput) (api.Call, error) {
	draft := applyCall(api.Call{Priority: api.PriorityNormal, Status: api.CallScheduled, CreatedAt: time.Now().UTC()}, in)
	if !draft.UserID.Valid {
		draft.UserID = s.sessionUserID()
	}
	return create(ctx, s, calls, draft,
		func(ctx context.Context) (api.Call, error) { return s.api.CreateCall(ctx, in) },
		func(c api.Call) uint { return c.ID })
}

func (s *Store) UpdateCall(ctx context.Context, id uint, in api.CallInput) (api.Call, error) {
	return update(ctx, s, calls, int64(id),
		func(c api.Call) api.Call { return applyCall(c, in) },
		func(ctx context.Context) (api.Call, error) { return s.api.UpdateCall(ctx, id, in) })
}

func (s *Store) DeleteCall(ctx context.Context, id uint) error {
	return remove(ctx, s, calls, int64(id), func(ctx context.Context) error { return s.api.DeleteCall(ctx, id) })
}

func (s *Store) CreateAppointment(ctx context.Context, in api.AppointmentInput) (api.Appointment, error) {
	draft := applyAppointment(api.Appointment{Status: api.AppointmentPending, CreatedAt: time.Now().UTC()}, in)
	if !draft.UserID.Valid {
		draft.UserID = s.sessionUserID()
	}
	return create(ctx, s, appointments, draft,
		func(ctx context.Context) (api.Appointment, error) { return s.api.CreateAppointment(ctx, in) },
		func(a api.Appointment) uint { return a.ID })
}

func (s *Store) UpdateAppointment(ctx context.Context, id uint, in api.AppointmentInput) (api.Appointment, error) {
	return update(ctx, s, appointments, int64(id),
		func(a api.Appointment) api.Appointment { return applyAppointment(a, in) },
		func(ctx context.Context) (api.Appointment, error) { return s.api.UpdateAppointment(ctx, id, in) })
}

func (s *Store) DeleteAppointment(ctx context.Context, id uint) error {
	return remove(ctx, s, appointments, int64(id), func(ctx context.Context) error { return s.api.DeleteAppointment(ctx, id) })
}

func (s *Store) CreateUser(ctx context.Context, in api.UserInput) (api.User, error) {
	draft := applyUser(api.User{Role: api.RoleCloser, Status: api.UserActive, Level: 1, Badges: []string{}, CreatedAt: time.Now().UTC()}, in)
	return create(ctx, s, users, draft,
		func(ctx context.Context) (api.User, error) { return s.api.CreateUser(ctx, in) },
		func(u api.User) uint { return u.ID })
}

func (s *Store) UpdateUser(ctx context.Context, id uint, in api.UserInput) (api.User, error) {
	return update(ctx, s, users, int64(id),
		func(u api.User) api.User { return applyUser(u, in) },
		func(ctx context.Context) (api.User, error) { return s.api.UpdateUser(ctx, id, in) })
}

func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return remove(ctx, s, users, int64(id), func(ctx context.Context) error { return s.api.DeleteUser(ctx, id) })
}

func (s *Store) sessionUserID() api.NullInt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u := s.state.Session.User; u != nil {
		return api.IntOf(int64(u.ID))
	}
	return api.NullInt{}
}

// The apply helpers mirror what the server stores for a given input so the
// optimistic record looks like the final one.

func applyCompany(c api.Company, in api.CompanyInput) api.Company {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = in.Phone
	c.City = in.City
	c.PostalCode = in.PostalCode
	c.Country = in.Country
	c.Siren = in.Siren
	c.Manager = in.Manager
	c.Sector = in.Sector
	c.Email = in.Email
	c.Website = in.Website
	c.Size = in.Size
	c.Notes = in.Notes
	c.GoogleRating = in.GoogleRating
	c.GoogleReviewsCount = in.GoogleReviewsCount
	if in.Status != "" {
		c.Status = in.Status
	}
	c.AssignedTo = in.AssignedTo
	return c
}

func applyCall(c api.Call, in api.CallInput) api.Call {
	c.CompanyID = uint(in.CompanyID.Int)
	c.Type = in.Type
	c.ScheduledDateTime = in.ScheduledDateTime
	c.Notes = in.Notes
	if in.Priority != "" {
		c.Priority = in.Priority
	}
	if in.Status != "" {
		c.Status = in.Status
	}
	if in.UserID.Valid {
		c.UserID = in.UserID
	}
	return c
}

func applyAppointment(a api.Appointment, in api.AppointmentInput) api.Appointment {
	a.CompanyID = uint(in.CompanyID.Int)
	a.Date = in.Date
	a.Briefing = in.Briefing
	if in.Status != "" {
		a.Status = in.Status
	}
	if in.UserID.Valid {
		a.UserID = in.UserID
	}
	return a
}

func applyUser(u api.User, in api.UserInput) api.User {
	u.Name = strings.TrimSpace(in.Name)
	u.Email = strings.TrimSpace(in.Email)
	u.Phone = in.Phone
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.Status != "" {
		u.Status = in.Status
	}
	if in.XP.Valid {
		u.XP = int(in.XP.Int)
	}
	if in.Level.Valid {
		u.Level = int(in.Level.Int)
	}
	if in.Badges != nil {
		u.Badges = append([]string(nil), in.Badges...)
	}
	return u
}
