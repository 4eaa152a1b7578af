package api

import (
	"context"
	"net/url"
	"strconv"
)

// AttendanceEntry marks one student's presence for a day.
type AttendanceEntry struct {
	StudentID int64 `json:"student_id"`
	Present   bool  `json:"present"`
}

// AttendanceSheet is one cluster's attendance for one day.
type AttendanceSheet struct {
	ClusterID int64             `json:"cluster_id"`
	Date      string            `json:"date"` // ISO 8601 date
	Entries   []AttendanceEntry `json:"entries"`
}

// AttendanceSummary is the server-computed monthly aggregate for a
// cluster. All aggregation happens server-side.
type AttendanceSummary struct {
	ClusterID   int64   `json:"cluster_id"`
	Month       string  `json:"month"` // "2026-08"
	WorkingDays int     `json:"working_days"`
	AvgPresent  float64 `json:"avg_present"`
	Percent     float64 `json:"percent"`
}

// SubmitAttendance uploads a day's attendance sheet for a cluster.
func (c *Client) SubmitAttendance(ctx context.Context, sheet *AttendanceSheet) error {
	if err := c.post(ctx, "/Attendance", sheet, nil); err != nil {
		return err
	}
	c.invalidateCache()
	return nil
}

// GetAttendanceSummary fetches the monthly attendance aggregate for a
// cluster. month is "YYYY-MM".
func (c *Client) GetAttendanceSummary(ctx context.Context, clusterID int64, month string) (*AttendanceSummary, error) {
	q := url.Values{}
	q.Set("cluster_id", strconv.FormatInt(clusterID, 10))
	q.Set("month", month)

	var out AttendanceSummary
	if err := c.get(ctx, "/Attendance/MonthlySummary", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
