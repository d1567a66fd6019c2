package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/diewo77/go-crm/api"
)

// Login stores the returned token on success.
func (c *Client) Login(ctx context.Context, email, password string) (api.AuthResponse, error) {
	var res api.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", api.LoginInput{Email: email, Password: password}, &res); err != nil {
		return res, err
	}
	c.SetToken(res.Token)
	return res, nil
}

func (c *Client) Signup(ctx context.Context, in api.SignupInput) (api.AuthResponse, error) {
	var res api.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", in, &res); err != nil {
		return res, err
	}
	c.SetToken(res.Token)
	return res, nil
}

func (c *Client) Verify(ctx context.Context) (api.User, error) {
	var res api.VerifyResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, &res)
	return res.User, err
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func idPath(base string, id uint) string { return fmt.Sprintf("%s/%d", base, id) }

// Companies

func (c *Client) Companies(ctx context.Context) ([]api.Company, error) {
	var out []api.Company
	err := c.do(ctx, http.MethodGet, "/api/companies", nil, &out)
	return out, err
}

func (c *Client) SearchCompanies(ctx context.Context, term string) ([]api.Company, error) {
	var out []api.Company
	err := c.do(ctx, http.MethodGet, "/api/companies/search/"+url.PathEscape(term), nil, &out)
	return out, err
}

func (c *Client) Company(ctx context.Context, id uint) (api.Company, error) {
	var out api.Company
	err := c.do(ctx, http.MethodGet, idPath("/api/companies", id), nil, &out)
	return out, err
}

func (c *Client) CreateCompany(ctx context.Context, in api.CompanyInput) (api.Company, error) {
	var out api.Company
	err := c.do(ctx, http.MethodPost, "/api/companies", in, &out)
	return out, err
}

func (c *Client) UpdateCompany(ctx context.Context, id uint, in api.CompanyInput) (api.Company, error) {
	var out api.Company
	err := c.do(ctx, http.MethodPut, idPath("/api/companies", id), in, &out)
	return out, err
}

func (c *Client) DeleteCompany(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/companies", id), nil, nil)
}

// Calls

func (c *Client) Calls(ctx context.Context) ([]api.Call, error) {
	var out []api.Call
	err := c.do(ctx, http.MethodGet, "/api/calls", nil, &out)
	return out, err
}

func (c *Client) CallsByCompany(ctx context.Context, companyID uint) ([]api.Call, error) {
	var out []api.Call
	err := c.do(ctx, http.MethodGet, idPath("/api/calls/company", companyID), nil, &out)
	return out, err
}

func (c *Client) Call(ctx context.Context, id uint) (api.Call, error) {
	var out api.Call
	err := c.do(ctx, http.MethodGet, idPath("/api/calls", id), nil, &out)
	return out, err
}

func (c *Client) CreateCall(ctx context.Context, in api.CallInput) (api.Call, error) {
	var out api.Call
	err := c.do(ctx, http.MethodPost, "/api/calls", in, &out)
	return out, err
}

func (c *Client) UpdateCall(ctx context.Context, id uint, in api.CallInput) (api.Call, error) {
	var out api.Call
	err := c.do(ctx, http.MethodPut, idPath("/api/calls", id), in, &out)
	return out, err
}

func (c *Client) DeleteCall(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/calls", id), nil, nil)
}

// Appointments

func (c *Client) Appointments(ctx context.Context) ([]api.Appointment, error) {
	var out []api.Appointment
	err := c.do(ctx, http.MethodGet, "/api/appointments", nil, &out)
	return out, err
}

func (c *Client) AppointmentsByCompany(ctx context.Context, companyID uint) ([]api.Appointment, error) {
	var out []api.Appointment
	err := c.do(ctx, http.MethodGet, idPath("/api/appointments/company", companyID), nil, &out)
	return out, err
}

func (c *Client) TodayAppointments(ctx context.Context) ([]api.Appointment, error) {
	var out []api.Appointment
	err := c.do(ctx, http.MethodGet, "/api/appointments/today", nil, &out)
	return out, err
}

func (c *Client) Appointment(ctx context.Context, id uint) (api.Appointment, error) {
	var out api.Appointment
	err := c.do(ctx, http.MethodGet, idPath("/api/appointments", id), nil, &out)
	return out, err
}

func (c *Client) CreateAppointment(ctx context.Context, in api.AppointmentInput) (api.Appointment, error) {
	var out api.Appointment
	err := c.do(ctx, http.MethodPost, "/api/appointments", in, &out)
	return out, err
}

func (c *Client) UpdateAppointment(ctx context.Context, id uint, in api.AppointmentInput) (api.Appointment, error) {
	var out api.Appointment
	err := c.do(ctx, http.MethodPut, idPath("/api/appointments", id), in, &out)
	return out, err
}

func (c *Client) DeleteAppointment(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/appointments", id), nil, nil)
}

// Users

func (c *Client) Users(ctx context.Context) ([]api.User, error) {
	var out []api.User
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &out)
	return out, err
}

func (c *Client) UsersByRole(ctx context.Context, role string) ([]api.User, error) {
	var out []api.User
	err := c.do(ctx, http.MethodGet, "/api/users/role/"+url.PathEscape(role), nil, &out)
	return out, err
}

func (c *Client) ActiveUsers(ctx context.Context) ([]api.User, error) {
	var out []api.User
	err := c.do(ctx, http.MethodGet, "/api/users/status/active", nil, &out)
	return out, err
}

func (c *Client) User(ctx context.Context, id uint) (api.User, error) {
	var out api.User
	err := c.do(ctx, http.MethodGet, idPath("/api/users", id), nil, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, in api.UserInput) (api.User, error) {
	var out api.User
	err := c.do(ctx, http.MethodPost, "/api/users", in, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id uint, in api.UserInput) (api.User, error) {
	var out api.User
	err := c.do(ctx, http.MethodPut, idPath("/api/users", id), in, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/users", id), nil, nil)
}

// Stats

func (c *Client) Overview(ctx context.Context) (api.Overview, error) {
	var out api.Overview
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, &out)
	return out, err
}

func (c *Client) UserStats(ctx context.Context, id uint) (api.UserStats, error) {
	var out api.UserStats
	err := c.do(ctx, http.MethodGet, idPath("/api/stats/user", id), nil, &out)
	return out, err
}

func (c *Client) MonthlyStats(ctx context.Context) ([]api.MonthlyStat, error) {
	var out []api.MonthlyStat
	err := c.do(ctx, http.MethodGet, "/api/stats/monthly", nil, &out)
	return out, err
}

func (c *Client) SectorStats(ctx context.Context) ([]api.SectorStat, error) {
	var out []api.SectorStat
	err := c.do(ctx, http.MethodGet, "/api/stats/sector", nil, &out)
	return out, err
}

func (c *Client) Performance(ctx context.Context) ([]api.UserStats, error) {
	var out []api.UserStats
	err := c.do(ctx, http.MethodGet, "/api/stats/performance", nil, &out)
	return out, err
}

// Report downloads the PDF activity report.
func (c *Client) Report(ctx context.Context) ([]byte, error) {
	return c.send(ctx, http.MethodGet, "/api/stats/report", nil)
}
