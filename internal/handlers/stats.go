package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/i18n"
	"github.com/jung-kurt/gofpdf"
)

// StatsSource is implemented by repository.Stats.
type StatsSource interface {
	Overview(ctx context.Context, now time.Time) (api.Overview, error)
	User(ctx context.Context, id uint) (api.UserStats, error)
	Performance(ctx context.Context) ([]api.UserStats, error)
	Monthly(ctx context.Context, now time.Time, months int) ([]api.MonthlyStat, error)
	Sectors(ctx context.Context) ([]api.SectorStat, error)
}

type StatsHandler struct {
	src StatsSource
	now func() time.Time
}

func NewStatsHandler(src StatsSource) *StatsHandler {
	return &StatsHandler{src: src, now: time.Now}
}

func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.src.Overview(r.Context(), h.now())
	if err != nil {
		writeError(w, r, "stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ov)
}

func (h *StatsHandler) User(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	st, err := h.src.User(r.Context(), id)
	if err != nil {
		writeError(w, r, "user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

// Monthly handles GET /api/stats/monthly. ?months=N narrows the window (1..24).
func (h *StatsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	months := 12
	if v := r.URL.Query().Get("months"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 24 {
			months = n
		}
	}
	out, err := h.src.Monthly(r.Context(), h.now(), months)
	if err != nil {
		writeError(w, r, "stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *StatsHandler) Sectors(w http.ResponseWriter, r *http.Request) {
	out, err := h.src.Sectors(r.Context())
	if err != nil {
		writeError(w, r, "stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *StatsHandler) Performance(w http.ResponseWriter, r *http.Request) {
	out, err := h.src.Performance(r.Context())
	if err != nil {
		writeError(w, r, "stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Report renders the overview and the closer ranking as a PDF attachment.
func (h *StatsHandler) Report(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	ov, err := h.src.Overview(r.Context(), now)
	if err != nil {
		writeError(w, r, "stats", err)
		return
	}
	perf, err := h.src.Performance(r.Context())
	if err != nil {
		writeError(w, r, "stats", err)
		return
	}
	body, err := renderReport(i18n.LangFromContext(r.Context()), now, ov, perf)
	if err != nil {
		writeError(w, r, "stats", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=crm_report_%s.pdf", now.UTC().Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func renderReport(lang string, now time.Time, ov api.Overview, perf []api.UserStats) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	utf := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, utf(i18n.T(lang, "report_title")), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, now.UTC().Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, utf(i18n.T(lang, "report_overview")), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	lines := []string{
		fmt.Sprintf("Companies: %d", ov.Companies.Total),
		fmt.Sprintf("Calls: %d", ov.Calls.Total),
		fmt.Sprintf("Appointments: %d (today: %d)", ov.Appointments.Total, ov.TodayAppointments),
		fmt.Sprintf("Users: %d (active: %d)", ov.Users.Total, ov.Users.Active),
		fmt.Sprintf("Conversion: %.1f %%", ov.ConversionRate),
	}
	for _, l := range lines {
		pdf.CellFormat(0, 7, l, "", 1, "L", false, 0, "")
	}
	for _, sc := range ov.Companies.ByStatus {
		pdf.CellFormat(0, 7, utf(fmt.Sprintf("  %s: %d", sc.Status, sc.Count)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, utf(i18n.T(lang, "report_performance")), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 8, "Name", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Calls", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Done", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Appointments", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Confirmed", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Rate", "1", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, p := range perf {
		pdf.CellFormat(60, 8, utf(p.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, strconv.FormatInt(p.Calls, 10), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, strconv.FormatInt(p.CompletedCalls, 10), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, strconv.FormatInt(p.Appointments, 10), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, strconv.FormatInt(p.ConfirmedAppointments, 10), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.1f %%", p.ConversionRate), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
