// Package store keeps the client-side CRM state and mirrors every mutation to
// the API. Creates insert a provisional record that is replaced by the server
// record once the API answers; updates and deletes are applied optimistically
// and rolled back when the API refuses them.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/i18n"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// API is the subset of *client.Client the store talks to.
type API interface {
	Login(ctx context.Context, email, password string) (api.AuthResponse, error)
	Logout()
	// OnUnauthorized registers a hook run whenever the API answers 401.
	OnUnauthorized(fn func())

	Companies(ctx context.Context) ([]api.Company, error)
	CreateCompany(ctx context.Context, in api.CompanyInput) (api.Company, error)
	UpdateCompany(ctx context.Context, id uint, in api.CompanyInput) (api.Company, error)
	DeleteCompany(ctx context.Context, id uint) error

	Calls(ctx context.Context) ([]api.Call, error)
	CreateCall(ctx context.Context, in api.CallInput) (api.Call, error)
	UpdateCall(ctx context.Context, id uint, in api.CallInput) (api.Call, error)
	DeleteCall(ctx context.Context, id uint) error

	Appointments(ctx context.Context) ([]api.Appointment, error)
	CreateAppointment(ctx context.Context, in api.AppointmentInput) (api.Appointment, error)
	UpdateAppointment(ctx context.Context, id uint, in api.AppointmentInput) (api.Appointment, error)
	DeleteAppointment(ctx context.Context, id uint) error

	Users(ctx context.Context) ([]api.User, error)
	CreateUser(ctx context.Context, in api.UserInput) (api.User, error)
	UpdateUser(ctx context.Context, id uint, in api.UserInput) (api.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// Item is one entry of a collection. Key equals the server id once the
// record is known to the API; provisional records have a negative Key and
// Pending set.
type Item[T any] struct {
	Key     int64
	Pending bool
	Value   T
}

type Session struct {
	User  *api.User
	Token string
}

func (s Session) LoggedIn() bool { return s.Token != "" }

// State is a snapshot of the store. Snapshots never share slices with the store.
type State struct {
	Companies    []Item[api.Company]
	Calls        []Item[api.Call]
	Appointments []Item[api.Appointment]
	Users        []Item[api.User]
	Session      Session
	Theme        Theme
	Locale       string
	Loaded       bool
}

func (st State) clone() State {
	out := st
	out.Companies = append([]Item[api.Company](nil), st.Companies...)
	out.Calls = append([]Item[api.Call](nil), st.Calls...)
	out.Appointments = append([]Item[api.Appointment](nil), st.Appointments...)
	out.Users = append([]Item[api.User](nil), st.Users...)
	if st.Session.User != nil {
		u := *st.Session.User
		out.Session.User = &u
	}
	return out
}

type Store struct {
	api API

	mu       sync.RWMutex
	state    State
	nextTemp int64
	subs     map[int]func(State)
	nextSub  int
}

// New returns a store seeded with DemoState.
func New(a API) *Store {
	s := &Store{api: a, state: DemoState(), subs: map[int]func(State){}}
	a.OnUnauthorized(s.Unauthorized)
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Locale
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// mutate applies fn under the write lock and notifies subscribers outside it.
func (s *Store) mutate(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()
	for _, sub := range subs {
		sub(snap)
	}
}

func (s *Store) tempKey() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTemp--
	return s.nextTemp
}

// IsPending reports whether key names a provisional record in any collection.
func (s *Store) IsPending(key int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pendingIn(s.state.Companies, key) || pendingIn(s.state.Calls, key) ||
		pendingIn(s.state.Appointments, key) || pendingIn(s.state.Users, key)
}

func pendingIn[T any](items []Item[T], key int64) bool {
	for _, it := range items {
		if it.Key == key {
			return it.Pending
		}
	}
	return false
}

func (s *Store) SetTheme(t Theme) error {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("unknown theme %q", t)
	}
	s.mutate(func(st *State) { st.Theme = t })
	return nil
}

func (s *Store) SetLocale(lang string) error {
	lang = i18n.Normalize(lang)
	if !i18n.Supported(lang) {
		return fmt.Errorf("unsupported locale %q", lang)
	}
	s.mutate(func(st *State) { st.Locale = lang })
	return nil
}

// Login opens a session; the demo data stays until Load runs.
func (s *Store) Login(ctx context.Context, email, password string) (api.AuthResponse, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return api.AuthResponse{}, err
	}
	u := res.User
	s.mutate(func(st *State) { st.Session = Session{User: &u, Token: res.Token} })
	return res, nil
}

// Logout drops the session and the client token.
func (s *Store) Logout() {
	s.api.Logout()
	s.mutate(func(st *State) { st.Session = Session{} })
}

// Unauthorized drops the session after the API rejected the token, sending
// subscribers back to the login screen.
func (s *Store) Unauthorized() {
	s.mutate(func(st *State) { st.Session = Session{} })
}

// Load replaces every collection with the API content. Nothing changes when
// one of the requests fails.
func (s *Store) Load(ctx context.Context) error {
	companies, err := s.api.Companies(ctx)
	if err != nil {
		return fmt.Errorf("load companies: %w", err)
	}
	calls, err := s.api.Calls(ctx)
	if err != nil {
		return fmt.Errorf("load calls: %w", err)
	}
	appointments, err := s.api.Appointments(ctx)
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}
	users, err := s.api.Users(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	s.mutate(func(st *State) {
		st.Companies = items(companies, func(c api.Company) uint { return c.ID })
		st.Calls = items(calls, func(c api.Call) uint { return c.ID })
		st.Appointments = items(appointments, func(a api.Appointment) uint { return a.ID })
		st.Users = items(users, func(u api.User) uint { return u.ID })
		st.Loaded = true
	})
	return nil
}

func items[T any](in []T, id func(T) uint) []Item[T] {
	out := make([]Item[T], 0, len(in))
	for _, v := range in {
		out = append(out, Item[T]{Key: int64(id(v)), Value: v})
	}
	return out
}
