package api

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type Overview struct {
	Companies         EntityTotals `json:"companies"`
	Calls             EntityTotals `json:"calls"`
	Appointments      EntityTotals `json:"appointments"`
	TodayAppointments int64        `json:"todayAppointments"`
	Users             UserTotals   `json:"users"`
	ConversionRate    float64      `json:"conversionRate"`
}

type EntityTotals struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"byStatus"`
}

type UserTotals struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type UserStats struct {
	UserID                uint    `json:"userId"`
	Name                  string  `json:"name"`
	XP                    int     `json:"xp"`
	Level                 int     `json:"level"`
	Calls                 int64   `json:"calls"`
	CompletedCalls        int64   `json:"completedCalls"`
	Appointments          int64   `json:"appointments"`
	ConfirmedAppointments int64   `json:"confirmedAppointments"`
	AssignedCompanies     int64   `json:"assignedCompanies"`
	ConversionRate        float64 `json:"conversionRate"`
}

type MonthlyStat struct {
	Month        string `json:"month"`
	Calls        int64  `json:"calls"`
	Appointments int64  `json:"appointments"`
	Companies    int64  `json:"companies"`
}

type SectorStat struct {
	Sector string `json:"sector"`
	Count  int64  `json:"count"`
}

// Percent returns part/total*100 rounded to one decimal, 0 when total is 0.
func Percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	v := float64(part) * 1000 / float64(total)
	return float64(int64(v+0.5)) / 10
}
