package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/internal/db"
)

// UnsetSector labels companies without a sector.
const UnsetSector = "Non renseigné"

// Stats aggregates reporting figures with hand-written SQL.
type Stats struct {
	db *db.DB
}

func NewStats(d *db.DB) *Stats { return &Stats{db: d} }

func (s *Stats) count(ctx context.Context, query string, args ...any) (int64, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int("n"), nil
}

func (s *Stats) byStatus(ctx context.Context, table string) (api.EntityTotals, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf("SELECT status, COUNT(*) AS n FROM %s GROUP BY status ORDER BY status", table))
	if err != nil {
		return api.EntityTotals{}, fmt.Errorf("%s by status: %w", table, err)
	}
	out := api.EntityTotals{ByStatus: []api.StatusCount{}}
	for _, r := range rows {
		n := r.Int("n")
		out.Total += n
		out.ByStatus = append(out.ByStatus, api.StatusCount{Status: r.String("status"), Count: n})
	}
	return out, nil
}

// Overview returns the dashboard totals.
func (s *Stats) Overview(ctx context.Context, now time.Time) (api.Overview, error) {
	var (
		ov  api.Overview
		err error
	)
	if ov.Companies, err = s.byStatus(ctx, "companies"); err != nil {
		return ov, err
	}
	if ov.Calls, err = s.byStatus(ctx, "calls"); err != nil {
		return ov, err
	}
	if ov.Appointments, err = s.byStatus(ctx, "appointments"); err != nil {
		return ov, err
	}
	start, end := DayBounds(now)
	if ov.TodayAppointments, err = s.count(ctx, "SELECT COUNT(*) AS n FROM appointments WHERE date >= ? AND date < ?", start, end); err != nil {
		return ov, fmt.Errorf("today's appointments: %w", err)
	}
	if ov.Users.Total, err = s.count(ctx, "SELECT COUNT(*) AS n FROM users"); err != nil {
		return ov, fmt.Errorf("count users: %w", err)
	}
	if ov.Users.Active, err = s.count(ctx, "SELECT COUNT(*) AS n FROM users WHERE status = ?", api.UserActive); err != nil {
		return ov, fmt.Errorf("count active users: %w", err)
	}
	var clients int64
	for _, sc := range ov.Companies.ByStatus {
		if sc.Status == api.CompanyClient {
			clients = sc.Count
		}
	}
	ov.ConversionRate = api.Percent(clients, ov.Companies.Total)
	return ov, nil
}

const performanceSQL = `SELECT u.id, u.name, u.xp, u.level,
	(SELECT COUNT(*) FROM calls c WHERE c.user_id = u.id) AS calls,
	(SELECT COUNT(*) FROM calls c WHERE c.user_id = u.id AND c.status = ?) AS completed_calls,
	(SELECT COUNT(*) FROM appointments a WHERE a.user_id = u.id) AS appointments,
	(SELECT COUNT(*) FROM appointments a WHERE a.user_id = u.id AND a.status = ?) AS confirmed_appointments,
	(SELECT COUNT(*) FROM companies co WHERE co.assigned_to = u.id) AS assigned_companies
FROM users u`

func userStatsFromRow(r db.Row) api.UserStats {
	st := api.UserStats{
		UserID:                uint(r.Int("id")),
		Name:                  r.String("name"),
		XP:                    int(r.Int("xp")),
		Level:                 int(r.Int("level")),
		Calls:                 r.Int("calls"),
		CompletedCalls:        r.Int("completed_calls"),
		Appointments:          r.Int("appointments"),
		ConfirmedAppointments: r.Int("confirmed_appointments"),
		AssignedCompanies:     r.Int("assigned_companies"),
	}
	st.ConversionRate = api.Percent(st.ConfirmedAppointments, st.Calls)
	return st
}

// User returns the activity of one user, ErrNotFound when absent.
func (s *Stats) User(ctx context.Context, id uint) (api.UserStats, error) {
	rows, err := s.db.Query(ctx, performanceSQL+" WHERE u.id = ?", api.CallDone, api.AppointmentConfirmed, id)
	if err != nil {
		return api.UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	if len(rows) == 0 {
		return api.UserStats{}, ErrNotFound
	}
	return userStatsFromRow(rows[0]), nil
}

// Performance ranks every user by confirmed appointments then calls.
func (s *Stats) Performance(ctx context.Context) ([]api.UserStats, error) {
	rows, err := s.db.Query(ctx, performanceSQL+" ORDER BY u.name", api.CallDone, api.AppointmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("performance: %w", err)
	}
	out := make([]api.UserStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, userStatsFromRow(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ConfirmedAppointments != out[j].ConfirmedAppointments {
			return out[i].ConfirmedAppointments > out[j].ConfirmedAppointments
		}
		return out[i].Calls > out[j].Calls
	})
	return out, nil
}

// Monthly returns one bucket per month for the months months ending with now's month.
func (s *Stats) Monthly(ctx context.Context, now time.Time, months int) ([]api.MonthlyStat, error) {
	if months <= 0 {
		months = 12
	}
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	out := make([]api.MonthlyStat, months)
	index := make(map[string]int, months)
	for i := range out {
		m := first.AddDate(0, i, 0).Format("2006-01")
		out[i].Month = m
		index[m] = i
	}

	sources := []struct {
		table, column string
		set           func(*api.MonthlyStat, int64)
	}{
		{"calls", "scheduled_date_time", func(m *api.MonthlyStat, n int64) { m.Calls = n }},
		{"appointments", "date", func(m *api.MonthlyStat, n int64) { m.Appointments = n }},
		{"companies", "created_at", func(m *api.MonthlyStat, n int64) { m.Companies = n }},
	}
	end := first.AddDate(0, months, 0)
	for _, src := range sources {
		bucket := s.db.Dialect.MonthBucket(src.column)
		q := fmt.Sprintf("SELECT %s AS month, COUNT(*) AS n FROM %s WHERE %s >= ? AND %s < ? GROUP BY %s",
			bucket, src.table, src.column, src.column, bucket)
		rows, err := s.db.Query(ctx, q, first, end)
		if err != nil {
			return nil, fmt.Errorf("monthly %s: %w", src.table, err)
		}
		for _, r := range rows {
			if i, ok := index[r.String("month")]; ok {
				src.set(&out[i], r.Int("n"))
			}
		}
	}
	return out, nil
}

// Sectors counts companies per sector, largest first.
func (s *Stats) Sectors(ctx context.Context) ([]api.SectorStat, error) {
	rows, err := s.db.Query(ctx, "SELECT COALESCE(sector, '') AS sector, COUNT(*) AS n FROM companies GROUP BY COALESCE(sector, '')")
	if err != nil {
		return nil, fmt.Errorf("sectors: %w", err)
	}
	counts := map[string]int64{}
	for _, r := range rows {
		name := r.String("sector")
		if name == "" {
			name = UnsetSector
		}
		counts[name] += r.Int("n")
	}
	out := make([]api.SectorStat, 0, len(counts))
	for name, n := range counts {
		out = append(out, api.SectorStat{Sector: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sector < out[j].Sector
	})
	return out, nil
}
