package api

import "context"

// DashboardStats is the server-computed headline figures for the
// administrative dashboard.
type DashboardStats struct {
	TotalStudents   int     `json:"total_students"`
	TotalTeachers   int     `json:"total_teachers"`
	TotalClusters   int     `json:"total_clusters"`
	ActivePrograms  int     `json:"active_programs"`
	AttendanceToday float64 `json:"attendance_today"`
	TotalDonations  float64 `json:"total_donations"`
}

// TrendPoint is one month of the attendance trend series.
type TrendPoint struct {
	Month   string  `json:"month"` // "2026-08"
	Percent float64 `json:"percent"`
}

// GetDashboardStats fetches the headline dashboard figures. Served from
// the read cache when one is enabled.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.getCached(ctx, "/Dashboard/Stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAttendanceTrend fetches the monthly attendance trend series.
func (c *Client) GetAttendanceTrend(ctx context.Context) ([]TrendPoint, error) {
	var out []TrendPoint
	if err := c.getCached(ctx, "/Dashboard/AttendanceTrend", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
