package utils

import (
	"fmt"
	"strings"
)

// XLSXContentType is the MIME type for modern spreadsheet workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TaskReportFilename builds the download name for a task-only report,
// e.g. Task_Report_alice_20240101.xlsx.
func TaskReportFilename(username, yyyymmdd string) string {
	return fmt.Sprintf("Task_Report_%s_%s.xlsx", sanitize(username), yyyymmdd)
}

// AttendanceReportFilename builds the download name for a combined
// attendance/task report over a date range.
func AttendanceReportFilename(username, start, end string) string {
	return fmt.Sprintf("Attendance_Report_%s_%s_%s.xlsx", sanitize(username), start, end)
}

// sanitize keeps usernames filesystem- and header-safe.
func sanitize(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", "\"", "", "'", "")
	return replacer.Replace(name)
}
