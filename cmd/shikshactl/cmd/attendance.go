package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shikshadesk/shikshactl/internal/api"
)

var attendanceSubmitFlags struct {
	clusterID int64
	date      string
	present   []int64
	absent    []int64
}

var attendanceSummaryFlags struct {
	clusterID int64
	month     string
}

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Submit sheets and view monthly summaries",
}

var attendanceSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit one day's attendance sheet for a cluster",
	Long: `Submit one day's attendance for a cluster. Student ids are passed as
comma-separated lists of who was present and who was absent.

Examples:
  shikshactl attendance submit --cluster 12 --present 1,4,9 --absent 2,7
  shikshactl attendance submit --cluster 12 --date 2026-08-30 --present 1,4`,
	RunE: runAttendanceSubmit,
}

var attendanceSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a cluster's monthly attendance aggregate",
	Long: `Show the server-computed monthly attendance aggregate for a cluster.

Examples:
  shikshactl attendance summary --cluster 12
  shikshactl attendance summary --cluster 12 --month 2026-07`,
	RunE: runAttendanceSummary,
}

func init() {
	attendanceSubmitCmd.Flags().Int64Var(&attendanceSubmitFlags.clusterID, "cluster", 0, "cluster id (required)")
	attendanceSubmitCmd.Flags().StringVar(&attendanceSubmitFlags.date, "date", "", "sheet date YYYY-MM-DD (default: today)")
	attendanceSubmitCmd.Flags().Int64SliceVar(&attendanceSubmitFlags.present, "present", nil, "student ids marked present")
	attendanceSubmitCmd.Flags().Int64SliceVar(&attendanceSubmitFlags.absent, "absent", nil, "student ids marked absent")
	_ = attendanceSubmitCmd.MarkFlagRequired("cluster")

	attendanceSummaryCmd.Flags().Int64Var(&attendanceSummaryFlags.clusterID, "cluster", 0, "cluster id (required)")
	attendanceSummaryCmd.Flags().StringVar(&attendanceSummaryFlags.month, "month", "", "month YYYY-MM (default: current month)")
	_ = attendanceSummaryCmd.MarkFlagRequired("cluster")

	attendanceCmd.AddCommand(attendanceSubmitCmd, attendanceSummaryCmd)
	rootCmd.AddCommand(attendanceCmd)
}

func runAttendanceSubmit(cmd *cobra.Command, args []string) error {
	if len(attendanceSubmitFlags.present) == 0 && len(attendanceSubmitFlags.absent) == 0 {
		return fmt.Errorf("pass at least one of --present or --absent")
	}

	date := attendanceSubmitFlags.date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
	}

	sheet := &api.AttendanceSheet{
		ClusterID: attendanceSubmitFlags.clusterID,
		Date:      date,
	}
	for _, id := range attendanceSubmitFlags.present {
		sheet.Entries = append(sheet.Entries, api.AttendanceEntry{StudentID: id, Present: true})
	}
	for _, id := range attendanceSubmitFlags.absent {
		sheet.Entries = append(sheet.Entries, api.AttendanceEntry{StudentID: id, Present: false})
	}

	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	if err := client.SubmitAttendance(cmd.Context(), sheet); err != nil {
		return err
	}

	fmt.Printf("Submitted attendance for cluster %d on %s (%d present, %d absent)\n",
		sheet.ClusterID, sheet.Date,
		len(attendanceSubmitFlags.present), len(attendanceSubmitFlags.absent))
	return nil
}

func runAttendanceSummary(cmd *cobra.Command, args []string) error {
	month := attendanceSummaryFlags.month
	if month == "" {
		month = time.Now().Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("invalid --month %q: want YYYY-MM", month)
	}

	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	summary, err := client.GetAttendanceSummary(cmd.Context(), attendanceSummaryFlags.clusterID, month)
	if err != nil {
		return err
	}

	if handled, err := printStructured(summary); handled {
		return err
	}

	fmt.Printf("Cluster:       %d\n", summary.ClusterID)
	fmt.Printf("Month:         %s\n", summary.Month)
	fmt.Printf("Working days:  %d\n", summary.WorkingDays)
	fmt.Printf("Avg present:   %.1f\n", summary.AvgPresent)
	fmt.Printf("Attendance:    %.1f%%\n", summary.Percent)
	return nil
}
