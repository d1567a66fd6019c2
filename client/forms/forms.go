// Package forms holds the controlled forms of the CRM client. A form keeps
// its input, validates it with the rule set shared with the server, submits
// it through the store and reports the outcome as a toast.
package forms

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/client"
	"github.com/diewo77/go-crm/i18n"
	"github.com/diewo77/go-crm/validation"
)

// ErrInvalid is returned by Submit when inline validation fails.
var ErrInvalid = errors.New("forms: invalid input")

// Notifier shows toasts.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Form[In, Out any] struct {
	Input  In
	Errors validation.Violations

	v       *validation.Validator
	check   func(In) validation.Violations
	submit  func(context.Context, In) (Out, error)
	success string
	locale  func() string
	notify  Notifier
}

func newForm[In, Out any](locale func() string, n Notifier, success string, submit func(context.Context, In) (Out, error)) *Form[In, Out] {
	return &Form[In, Out]{
		Errors:  validation.Violations{},
		v:       api.NewValidator(),
		submit:  submit,
		success: success,
		locale:  locale,
		notify:  n,
	}
}

// Validate refreshes Errors and reports whether the input can be sent.
func (f *Form[In, Out]) Validate() bool {
	f.Errors = f.v.Struct(f.Input)
	if f.check != nil {
		f.Errors.Merge(f.check(f.Input))
	}
	return f.Errors.Empty()
}

// Messages returns the inline error of each field in the store's locale.
func (f *Form[In, Out]) Messages() map[string]string {
	lang := f.locale()
	return f.Errors.Messages(func(code string) string { return i18n.T(lang, code) })
}

// Submit validates and sends the input. Every failure, inline or remote, is
// reported through the Notifier.
func (f *Form[In, Out]) Submit(ctx context.Context) (Out, error) {
	var zero Out
	lang := f.locale()
	if !f.Validate() {
		f.notify.Error(i18n.T(lang, "validation_failed"))
		return zero, ErrInvalid
	}
	out, err := f.submit(ctx, f.Input)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			f.Errors.Merge(apiErr.Details)
		}
		f.notify.Error(failureMessage(lang, err))
		return zero, err
	}
	f.notify.Success(i18n.T(lang, f.success))
	return out, nil
}

// failureMessage prefers the server message, which already follows the
// client language.
func failureMessage(lang string, err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, client.ErrUnauthorized) {
		return i18n.T(lang, "session_expired")
	}
	return i18n.T(lang, "request_failed")
}

// The store interfaces below are all satisfied by *store.Store.

type Sessions interface {
	Locale() string
	Login(ctx context.Context, email, password string) (api.AuthResponse, error)
}

type Companies interface {
	Locale() string
	CreateCompany(ctx context.Context, in api.CompanyInput) (api.Company, error)
	UpdateCompany(ctx context.Context, id uint, in api.CompanyInput) (api.Company, error)
}

type Calls interface {
	Locale() string
	CreateCall(ctx context.Context, in api.CallInput) (api.Call, error)
	UpdateCall(ctx context.Context, id uint, in api.CallInput) (api.Call, error)
}

type Appointments interface {
	Locale() string
	CreateAppointment(ctx context.Context, in api.AppointmentInput) (api.Appointment, error)
	UpdateAppointment(ctx context.Context, id uint, in api.AppointmentInput) (api.Appointment, error)
}

type Users interface {
	Locale() string
	CreateUser(ctx context.Context, in api.UserInput) (api.User, error)
	UpdateUser(ctx context.Context, id uint, in api.UserInput) (api.User, error)
}

func NewLoginForm(s Sessions, n Notifier) *Form[api.LoginInput, api.AuthResponse] {
	return newForm(s.Locale, n, "login_success", func(ctx context.Context, in api.LoginInput) (api.AuthResponse, error) {
		return s.Login(ctx, strings.TrimSpace(in.Email), in.Password)
	})
}

// NewCompanyForm edits the company id, or creates one when id is 0.
func NewCompanyForm(s Companies, n Notifier, id uint) *Form[api.CompanyInput, api.Company] {
	if id == 0 {
		return newForm(s.Locale, n, "company_created", s.CreateCompany)
	}
	return newForm(s.Locale, n, "company_updated", func(ctx context.Context, in api.CompanyInput) (api.Company, error) {
		return s.UpdateCompany(ctx, id, in)
	})
}

func NewCallForm(s Calls, n Notifier, id uint) *Form[api.CallInput, api.Call] {
	if id == 0 {
		f := newForm(s.Locale, n, "call_created", s.CreateCall)
		f.Input.Priority = api.PriorityNormal
		f.Input.Status = api.CallScheduled
		return f
	}
	return newForm(s.Locale, n, "call_updated", func(ctx context.Context, in api.CallInput) (api.Call, error) {
		return s.UpdateCall(ctx, id, in)
	})
}

func NewAppointmentForm(s Appointments, n Notifier, id uint) *Form[api.AppointmentInput, api.Appointment] {
	if id == 0 {
		f := newForm(s.Locale, n, "appointment_created", s.CreateAppointment)
		f.Input.Status = api.AppointmentPending
		return f
	}
	return newForm(s.Locale, n, "appointment_updated", func(ctx context.Context, in api.AppointmentInput) (api.Appointment, error) {
		return s.UpdateAppointment(ctx, id, in)
	})
}

// NewUserForm requires a password when creating; on edit an empty password
// keeps the current one.
func NewUserForm(s Users, n Notifier, id uint) *Form[api.UserInput, api.User] {
	if id == 0 {
		f := newForm(s.Locale, n, "user_created", s.CreateUser)
		f.Input.Role = api.RoleCloser
		f.Input.Status = api.UserActive
		f.check = func(in api.UserInput) validation.Violations {
			v := validation.Violations{}
			validation.Required("password", in.Password, v)
			return v
		}
		return f
	}
	return newForm(s.Locale, n, "user_updated", func(ctx context.Context, in api.UserInput) (api.User, error) {
		return s.UpdateUser(ctx, id, in)
	})
}

// Inputs prefilled from existing records, for edit forms.

func CompanyInput(c api.Company) api.CompanyInput {
	return api.CompanyInput{
		Name: c.Name, Phone: c.Phone, City: c.City, PostalCode: c.PostalCode,
		Country: c.Country, Siren: c.Siren, Manager: c.Manager, Sector: c.Sector,
		Email: c.Email, Website: c.Website, Size: c.Size, Notes: c.Notes,
		GoogleRating: c.GoogleRating, GoogleReviewsCount: c.GoogleReviewsCount,
		Status: c.Status, AssignedTo: c.AssignedTo,
	}
}

func CallInput(c api.Call) api.CallInput {
	return api.CallInput{
		CompanyID: api.IntOf(int64(c.CompanyID)), Type: c.Type, ScheduledDateTime: c.ScheduledDateTime,
		Notes: c.Notes, Priority: c.Priority, Status: c.Status, UserID: c.UserID,
	}
}

func AppointmentInput(a api.Appointment) api.AppointmentInput {
	return api.AppointmentInput{
		CompanyID: api.IntOf(int64(a.CompanyID)), Date: a.Date, Briefing: a.Briefing,
		Status: a.Status, UserID: a.UserID,
	}
}

func UserInput(u api.User) api.UserInput {
	return api.UserInput{
		Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role, Status: u.Status,
		Avatar: u.Avatar, XP: api.IntOf(int64(u.XP)), Level: api.IntOf(int64(u.Level)),
		Badges: u.Badges,
	}
}
