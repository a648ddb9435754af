package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Inspect the attendance log",
}

var attendanceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show attendance records for a day",
	Long: `Show attendance records for one day (today by default).

Examples:
  acadix-scan attendance show
  acadix-scan attendance show --date 14-03-2025`,
	RunE: runAttendanceShow,
}

var attendanceSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show present/absent counts for a day",
	RunE:  runAttendanceSummary,
}

var attendanceReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report students with low attendance",
	Long: `Report students whose attendance over a recent window falls below a
threshold percentage.

Example:
  acadix-scan attendance report --threshold 75 --days 30 --alert`,
	RunE: runAttendanceReport,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)
	attendanceCmd.AddCommand(attendanceShowCmd)
	attendanceCmd.AddCommand(attendanceSummaryCmd)
	attendanceCmd.AddCommand(attendanceReportCmd)

	attendanceShowCmd.Flags().String("date", "", "Date in dd-mm-yyyy format (default today)")
	attendanceSummaryCmd.Flags().String("date", "", "Date in dd-mm-yyyy format (default today)")

	attendanceReportCmd.Flags().Float64("threshold", 75, "Attendance percentage threshold")
	attendanceReportCmd.Flags().Int("days", 30, "Window in days")
	attendanceReportCmd.Flags().Bool("alert", false, "Record a parent alert for every listed student")
}

const cliDateLayout = "02-01-2006"

func flagDate(cmd *cobra.Command) (string, error) {
	date := mustGetString(cmd, "date")
	if date == "" {
		return time.Now().Format(cliDateLayout), nil
	}
	if _, err := time.Parse(cliDateLayout, date); err != nil {
		return "", fmt.Errorf("date must be in dd-mm-yyyy format: %q", date)
	}
	return date, nil
}

func runAttendanceShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	date, err := flagDate(cmd)
	if err != nil {
		return err
	}

	records, err := st.AttendanceForDate(date)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No attendance records for %s.\n", date)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRN\tROLL\tNAME\tTIME\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.PRN, r.RollNo, r.Name, r.Time, r.Status)
	}
	return w.Flush()
}

func runAttendanceSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	date, err := flagDate(cmd)
	if err != nil {
		return err
	}

	summary, err := st.SummaryForDate(date)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d registered, %d present, %d absent\n",
		date, summary.Total, summary.Present, summary.Absent)
	return nil
}

func runAttendanceReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	threshold := mustGetFloat64(cmd, "threshold")
	days := mustGetInt(cmd, "days")
	sendAlerts, _ := cmd.Flags().GetBool("alert")

	report, err := st.LowAttendanceReport(threshold, days)
	if err != nil {
		return err
	}
	if len(report) == 0 {
		fmt.Printf("All students are at or above %.0f%% over the last %d days.\n", threshold, days)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRN\tNAME\tPRESENT\tDAYS\tPERCENT")
	for _, row := range report {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f%%\n", row.PRN, row.Name, row.Present, row.Total, row.Percentage)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !sendAlerts {
		return nil
	}
	for _, row := range report {
		message := fmt.Sprintf("Attendance for %s is %.1f%% over the last %d days, below the required %.0f%%.",
			row.Name, row.Percentage, days, threshold)
		if _, err := st.SendAlert(row.PRN, "parent", message, "attendance-report"); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record alert for %s: %v\n", row.PRN, err)
			continue
		}
		fmt.Printf("Alert recorded for %s (parent)\n", row.Name)
	}
	return nil
}
