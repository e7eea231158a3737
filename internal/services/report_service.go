package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aoyagi/tasktracker/internal/models"
	"github.com/aoyagi/tasktracker/internal/repository"
)

const (
	sheetTasks      = "Tasks"
	sheetSummary    = "Summary"
	sheetWeekly     = "Weekly_Breakdown"
	sheetAttendance = "Attendance"

	timestampFormat = "2006-01-02 15:04"
	clockFormat     = "15:04"

	// noTasksPlaceholder keeps attended days visible in the combined
	// report even when nothing was scheduled on them.
	noTasksPlaceholder = "No tasks found"
)

// TaskRow is one denormalized, export-ready task record with typed date
// columns. Optional dates that are missing or unparseable carry a nil
// sentinel rather than failing the frame build.
type TaskRow struct {
	ID          uint64
	UserID      uint64
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Category    string
	TaskDate    *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// ProductivityMetrics summarizes completion behavior over a task frame.
type ProductivityMetrics struct {
	TotalTasks        int     `json:"total_tasks"`
	CompletedTasks    int     `json:"completed_tasks"`
	CompletionRate    float64 `json:"completion_rate"`
	AvgCompletionDays float64 `json:"avg_completion_days"`
}

// WeeklyBreakdown is the per-ISO-week per-status count pivot, wide form:
// one column per status value observed in the frame.
type WeeklyBreakdown struct {
	Statuses []models.TaskStatus `json:"statuses"`
	Rows     []WeeklyRow         `json:"rows"`
}

// WeeklyRow is one pivot row; Counts aligns with WeeklyBreakdown.Statuses.
type WeeklyRow struct {
	Week   string  `json:"week"`
	Counts []int64 `json:"counts"`
}

// AttendanceTaskRow is one row of the combined attendance/task report.
type AttendanceTaskRow struct {
	Date         string              `json:"date"`
	LoginTime    string              `json:"login_time"`
	LogoutTime   string              `json:"logout_time"`
	TaskTitle    string              `json:"task_title"`
	TaskStatus   models.TaskStatus   `json:"task_status"`
	TaskPriority models.TaskPriority `json:"task_priority"`
	TaskCategory string              `json:"task_category"`
}

// ReportService builds export-ready views over the task and attendance
// stores and renders them as in-memory xlsx workbooks.
type ReportService struct {
	taskRepo       repository.TaskRepository
	attendanceRepo repository.AttendanceRepository
}

// NewReportService creates a new ReportService
func NewReportService(taskRepo repository.TaskRepository, attendanceRepo repository.AttendanceRepository) *ReportService {
	return &ReportService{
		taskRepo:       taskRepo,
		attendanceRepo: attendanceRepo,
	}
}

// BuildTaskFrame converts raw tasks into export rows with typed dates. A
// zero task date becomes the nil sentinel instead of an error.
func BuildTaskFrame(tasks []models.Task) []TaskRow {
	frame := make([]TaskRow, 0, len(tasks))
	for _, task := range tasks {
		row := TaskRow{
			ID:          task.ID,
			UserID:      task.UserID,
			Title:       task.Title,
			Description: task.Description,
			Status:      task.Status,
			Priority:    task.Priority,
			Category:    task.Category,
			CreatedAt:   task.CreatedAt,
			CompletedAt: task.CompletedAt,
		}
		if !task.TaskDate.IsZero() {
			d := task.TaskDate
			row.TaskDate = &d
		}
		frame = append(frame, row)
	}
	return frame
}

// ComputeProductivityMetrics calculates completion metrics over a frame.
// An empty frame yields zeros, not an error.
func ComputeProductivityMetrics(frame []TaskRow) ProductivityMetrics {
	metrics := ProductivityMetrics{TotalTasks: len(frame)}
	if len(frame) == 0 {
		return metrics
	}

	var completionDaysSum float64
	var completedWithTimestamp int
	for _, row := range frame {
		if row.Status != models.TaskStatusCompleted {
			continue
		}
		metrics.CompletedTasks++
		if row.CompletedAt != nil {
			days := math.Floor(row.CompletedAt.Sub(row.CreatedAt).Hours() / 24)
			if days < 0 {
				days = 0
			}
			completionDaysSum += days
			completedWithTimestamp++
		}
	}

	metrics.CompletionRate = float64(metrics.CompletedTasks) / float64(metrics.TotalTasks) * 100
	if completedWithTimestamp > 0 {
		metrics.AvgCompletionDays = completionDaysSum / float64(completedWithTimestamp)
	}
	return metrics
}

// ComputeWeeklyBreakdown groups the frame by the ISO week of creation and
// pivots status counts wide.
func ComputeWeeklyBreakdown(frame []TaskRow) WeeklyBreakdown {
	type weekKey string
	counts := map[weekKey]map[models.TaskStatus]int64{}
	statusSeen := map[models.TaskStatus]bool{}

	for _, row := range frame {
		year, week := row.CreatedAt.ISOWeek()
		key := weekKey(fmt.Sprintf("%04d-W%02d", year, week))
		if counts[key] == nil {
			counts[key] = map[models.TaskStatus]int64{}
		}
		counts[key][row.Status]++
		statusSeen[row.Status] = true
	}

	// Canonical taxonomy order first, anything else appended sorted.
	var statuses []models.TaskStatus
	for _, s := range models.Statuses() {
		if statusSeen[s] {
			statuses = append(statuses, s)
			delete(statusSeen, s)
		}
	}
	var extra []string
	for s := range statusSeen {
		extra = append(extra, string(s))
	}
	sort.Strings(extra)
	for _, s := range extra {
		statuses = append(statuses, models.TaskStatus(s))
	}

	weeks := make([]string, 0, len(counts))
	for key := range counts {
		weeks = append(weeks, string(key))
	}
	sort.Strings(weeks)

	breakdown := WeeklyBreakdown{Statuses: statuses}
	for _, week := range weeks {
		row := WeeklyRow{Week: week, Counts: make([]int64, len(statuses))}
		for i, status := range statuses {
			row.Counts[i] = counts[weekKey(week)][status]
		}
		breakdown.Rows = append(breakdown.Rows, row)
	}
	return breakdown
}

// ExportTaskWorkbook renders the task report as xlsx bytes: a Tasks sheet
// (internal id columns dropped), a Summary sheet of metric/value pairs and a
// Weekly_Breakdown pivot. The workbook is produced entirely in memory.
func (s *ReportService) ExportTaskWorkbook(frame []TaskRow, stats *TaskStats, metrics ProductivityMetrics) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeTasksSheet(f, sheetTasks, frame); err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, stats, metrics); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetWeekly); err != nil {
		return nil, fmt.Errorf("failed to create %s sheet: %w", sheetWeekly, err)
	}
	breakdown := ComputeWeeklyBreakdown(frame)
	header := []interface{}{"Week"}
	for _, status := range breakdown.Statuses {
		header = append(header, string(status))
	}
	if err := f.SetSheetRow(sheetWeekly, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write %s header: %w", sheetWeekly, err)
	}
	for i, row := range breakdown.Rows {
		cells := []interface{}{row.Week}
		for _, count := range row.Counts {
			cells = append(cells, count)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetWeekly, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write %s row: %w", sheetWeekly, err)
		}
	}

	return finishWorkbook(f)
}

// BuildAttendanceTaskReport joins a user's tasks-by-date with attendance
// rows over an inclusive date range. Every day in the range that has either
// an attendance entry or tasks contributes rows; an attended day with no
// tasks contributes a single placeholder row instead of being dropped.
func (s *ReportService) BuildAttendanceTaskReport(userID uint64, startDate, endDate string) ([]AttendanceTaskRow, error) {
	start, err := time.Parse(models.DateFormat, startDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := time.Parse(models.DateFormat, endDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	entries, err := s.attendanceRepo.ListForUser(userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	attendanceByDate := make(map[string]models.Attendance, len(entries))
	for _, entry := range entries {
		attendanceByDate[entry.Date] = entry
	}

	tasks, err := s.taskRepo.ListForUser(userID, repository.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	tasksByDate := map[string][]models.Task{}
	for _, task := range tasks {
		day := task.TaskDate.Format(models.DateFormat)
		tasksByDate[day] = append(tasksByDate[day], task)
	}

	var rows []AttendanceTaskRow
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(models.DateFormat)
		entry, attended := attendanceByDate[date]
		dayTasks := tasksByDate[date]
		if !attended && len(dayTasks) == 0 {
			continue
		}

		login, logout := "", ""
		if attended {
			login = formatClock(entry.LoginTime)
			logout = formatClock(entry.LogoutTime)
		}

		if len(dayTasks) == 0 {
			rows = append(rows, AttendanceTaskRow{
				Date:       date,
				LoginTime:  login,
				LogoutTime: logout,
				TaskTitle:  noTasksPlaceholder,
			})
			continue
		}

		for _, task := range dayTasks {
			rows = append(rows, AttendanceTaskRow{
				Date:         date,
				LoginTime:    login,
				LogoutTime:   logout,
				TaskTitle:    task.Title,
				TaskStatus:   task.Status,
				TaskPriority: task.Priority,
				TaskCategory: task.Category,
			})
		}
	}

	return rows, nil
}

// ExportAttendanceWorkbook renders the combined report as xlsx bytes with
// Tasks, Attendance and Summary sheets.
func (s *ReportService) ExportAttendanceWorkbook(frame []TaskRow, report []AttendanceTaskRow, stats *TaskStats, metrics ProductivityMetrics) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeTasksSheet(f, sheetTasks, frame); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetAttendance); err != nil {
		return nil, fmt.Errorf("failed to create %s sheet: %w", sheetAttendance, err)
	}
	header := []interface{}{"Date", "Login", "Logout", "Task", "Status", "Priority", "Category"}
	if err := f.SetSheetRow(sheetAttendance, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write %s header: %w", sheetAttendance, err)
	}
	for i, row := range report {
		cells := []interface{}{
			row.Date, row.LoginTime, row.LogoutTime,
			row.TaskTitle, string(row.TaskStatus), string(row.TaskPriority), row.TaskCategory,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetAttendance, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write %s row: %w", sheetAttendance, err)
		}
	}

	if err := writeSummarySheet(f, stats, metrics); err != nil {
		return nil, err
	}

	return finishWorkbook(f)
}

// writeTasksSheet writes the raw frame minus the internal id columns.
func writeTasksSheet(f *excelize.File, sheet string, frame []TaskRow) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", sheet, err)
	}

	header := []interface{}{"Title", "Description", "Status", "Priority", "Category", "Task_Date", "Created_At", "Completed_At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	for i, row := range frame {
		taskDate := ""
		if row.TaskDate != nil {
			taskDate = row.TaskDate.Format(models.DateFormat)
		}
		completedAt := ""
		if row.CompletedAt != nil {
			completedAt = row.CompletedAt.Format(timestampFormat)
		}
		cells := []interface{}{
			row.Title, row.Description, string(row.Status), string(row.Priority), row.Category,
			taskDate, row.CreatedAt.Format(timestampFormat), completedAt,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write %s row: %w", sheet, err)
		}
	}
	return nil
}

// writeSummarySheet writes metric/value pairs, floats rounded to 2 places.
func writeSummarySheet(f *excelize.File, stats *TaskStats, metrics ProductivityMetrics) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", sheetSummary, err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Tasks", stats.Total},
		{"Pending", stats.Pending},
		{"In Progress", stats.InProgress},
		{"Completed", stats.Completed},
		{"Overdue", stats.Overdue},
		{"Completion Rate (%)", round2(metrics.CompletionRate)},
		{"Avg Completion Time (days)", round2(metrics.AvgCompletionDays)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheetSummary, cell, &r); err != nil {
			return fmt.Errorf("failed to write %s row: %w", sheetSummary, err)
		}
	}
	return nil
}

// finishWorkbook drops the default sheet and serializes to bytes, keeping
// the export free of filesystem side effects.
func finishWorkbook(f *excelize.File) ([]byte, error) {
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(clockFormat)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
