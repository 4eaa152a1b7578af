package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show headline figures and trends",
}

var dashboardStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show headline dashboard figures",
	RunE:  runDashboardStats,
}

var dashboardTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show the monthly attendance trend",
	RunE:  runDashboardTrend,
}

func init() {
	dashboardCmd.AddCommand(dashboardStatsCmd, dashboardTrendCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboardStats(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	stats, err := client.GetDashboardStats(cmd.Context())
	if err != nil {
		return err
	}

	if handled, err := printStructured(stats); handled {
		return err
	}

	fmt.Printf("Students:          %d\n", stats.TotalStudents)
	fmt.Printf("Teachers:          %d\n", stats.TotalTeachers)
	fmt.Printf("Clusters:          %d\n", stats.TotalClusters)
	fmt.Printf("Active programs:   %d\n", stats.ActivePrograms)
	fmt.Printf("Attendance today:  %.1f%%\n", stats.AttendanceToday)
	fmt.Printf("Total donations:   %.2f\n", stats.TotalDonations)
	return nil
}

func runDashboardTrend(cmd *cobra.Command, args []string) error {
	client, err := newAuthenticatedClient()
	if err != nil {
		return err
	}
	trend, err := client.GetAttendanceTrend(cmd.Context())
	if err != nil {
		return err
	}

	if handled, err := printStructured(trend); handled {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "MONTH\tATTENDANCE")
	for _, p := range trend {
		fmt.Fprintf(w, "%s\t%.1f%%\n", p.Month, p.Percent)
	}
	return w.Flush()
}
