// Package store keeps the student register, attendance log and alert history
// in plain CSV files under a single data directory. Files are small enough to
// be rewritten wholesale on every mutation, which keeps the format trivially
// inspectable and editable by hand.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	studentsFile   = "student_details.csv"
	attendanceFile = "attendance.csv"
	alertsFile     = "alerts.csv"

	dateLayout = "02-01-2006"
	timeLayout = "15:04:05"

	statusPresent = "Present"
)

var (
	studentHeader    = []string{"StudentID", "FullName", "Email", "RollNo", "PRN", "StudentPhone", "ParentPhone", "Address", "Year", "Branch", "Semester"}
	attendanceHeader = []string{"Date", "PRN", "RollNo", "Name", "Time", "Status"}
	alertHeader      = []string{"AlertID", "PRN", "StudentPhone", "ParentPhone", "Target", "Message", "DateTime", "Sender"}
)

// ErrDuplicateStudent reports a registration with an already-used student ID.
var ErrDuplicateStudent = errors.New("student ID already exists")

// Student is one row of the student register.
type Student struct {
	StudentID    string
	FullName     string
	Email        string
	RollNo       string
	PRN          string
	StudentPhone string
	ParentPhone  string
	Address      string
	Year         string
	Branch       string
	Semester     string
}

// AttendanceRecord is one row of the attendance log.
type AttendanceRecord struct {
	Date   string
	PRN    string
	RollNo string
	Name   string
	Time   string
	Status string
}

// MarkResult reports the outcome of an attendance mark attempt.
type MarkResult struct {
	Marked  bool
	Message string
}

// Summary aggregates attendance for one day across the whole register.
type Summary struct {
	Total   int
	Present int
	Absent  int
}

// Standing is one row of the low attendance report.
type Standing struct {
	PRN          string
	Name         string
	Present      int
	Total        int
	Percentage   float64
	StudentPhone string
	ParentPhone  string
	Year         string
	Branch       string
	Semester     string
}

// Store is a CSV-backed register rooted at a data directory.
type Store struct {
	dir string

	now func() time.Time // test seam
}

// Open creates the data directory if needed and ensures all CSV files exist
// with their headers. Existing files are never truncated.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	s := &Store{dir: dir, now: time.Now}
	for file, header := range map[string][]string{
		studentsFile:   studentHeader,
		attendanceFile: attendanceHeader,
		alertsFile:     alertHeader,
	} {
		if err := s.ensureFile(file, header); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) path(file string) string {
	return filepath.Join(s.dir, file)
}

func (s *Store) ensureFile(file string, header []string) error {
	path := s.path(file)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return s.writeAll(file, header, nil)
}

// readAll returns the data rows of a CSV file, header stripped. Rows with a
// deviating field count are tolerated and padded to the header width.
func (s *Store) readAll(file string, width int) ([][]string, error) {
	f, err := os.Open(s.path(file))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	data := rows[1:]
	for i, row := range data {
		for len(row) < width {
			row = append(row, "")
		}
		data[i] = row[:width]
	}
	return data, nil
}

func (s *Store) writeAll(file string, header []string, rows [][]string) error {
	tmp := s.path(file) + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", file, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err == nil {
		err = w.WriteAll(rows)
	}
	w.Flush()
	if err == nil {
		err = w.Error()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", file, err)
	}
	if err := os.Rename(tmp, s.path(file)); err != nil {
		return fmt.Errorf("replacing %s: %w", file, err)
	}
	return nil
}

func studentRow(st Student) []string {
	return []string{st.StudentID, st.FullName, st.Email, st.RollNo, st.PRN, st.StudentPhone, st.ParentPhone, st.Address, st.Year, st.Branch, st.Semester}
}

func rowStudent(row []string) Student {
	return Student{
		StudentID:    row[0],
		FullName:     row[1],
		Email:        row[2],
		RollNo:       row[3],
		PRN:          row[4],
		StudentPhone: row[5],
		ParentPhone:  row[6],
		Address:      row[7],
		Year:         row[8],
		Branch:       row[9],
		Semester:     row[10],
	}
}

// AddStudent appends a student to the register. The student ID must be
// non-empty and unique.
func (s *Store) AddStudent(st Student) error {
	if strings.TrimSpace(st.StudentID) == "" {
		return fmt.Errorf("student ID must not be empty")
	}
	if strings.TrimSpace(st.FullName) == "" {
		return fmt.Errorf("full name must not be empty")
	}
	rows, err := s.readAll(studentsFile, len(studentHeader))
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row[0] == st.StudentID {
			return fmt.Errorf("%w: %s", ErrDuplicateStudent, st.StudentID)
		}
	}
	rows = append(rows, studentRow(st))
	return s.writeAll(studentsFile, studentHeader, rows)
}

// ListStudents returns the whole register in file order.
func (s *Store) ListStudents() ([]Student, error) {
	rows, err := s.readAll(studentsFile, len(studentHeader))
	if err != nil {
		return nil, err
	}
	students := make([]Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, rowStudent(row))
	}
	return students, nil
}

// FindStudentByName matches a full name, first exactly and then ignoring
// case and diacritics. A nil student with a nil error means no match.
func (s *Store) FindStudentByName(name string) (*Student, error) {
	students, err := s.ListStudents()
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].FullName == name {
			return &students[i], nil
		}
	}
	want := NormalizeName(name)
	for i := range students {
		if NormalizeName(students[i].FullName) == want {
			return &students[i], nil
		}
	}
	return nil, nil
}

// FindStudentByPRN looks up a student by PRN. A nil student with a nil error
// means no match.
func (s *Store) FindStudentByPRN(prn string) (*Student, error) {
	students, err := s.ListStudents()
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].PRN == prn {
			return &students[i], nil
		}
	}
	return nil, nil
}

// MarkPresentIfAbsent records a present mark for the student, unless one
// already exists for today. The duplicate case is a normal outcome, not an
// error: the result says whether a new row was written.
func (s *Store) MarkPresentIfAbsent(prn, rollNo, name string) (MarkResult, error) {
	now := s.now()
	today := now.Format(dateLayout)

	rows, err := s.readAll(attendanceFile, len(attendanceHeader))
	if err != nil {
		return MarkResult{}, err
	}
	for _, row := range rows {
		if row[0] == today && row[1] == prn {
			return MarkResult{Marked: false, Message: "Attendance already marked for today."}, nil
		}
	}
	rows = append(rows, []string{today, prn, rollNo, name, now.Format(timeLayout), statusPresent})
	if err := s.writeAll(attendanceFile, attendanceHeader, rows); err != nil {
		return MarkResult{}, err
	}
	return MarkResult{Marked: true, Message: "Attendance marked successfully."}, nil
}

func rowAttendance(row []string) AttendanceRecord {
	return AttendanceRecord{
		Date:   row[0],
		PRN:    row[1],
		RollNo: row[2],
		Name:   row[3],
		Time:   row[4],
		Status: row[5],
	}
}

// AttendanceForDate returns the attendance rows for one day (dd-mm-yyyy).
func (s *Store) AttendanceForDate(date string) ([]AttendanceRecord, error) {
	rows, err := s.readAll(attendanceFile, len(attendanceHeader))
	if err != nil {
		return nil, err
	}
	var records []AttendanceRecord
	for _, row := range rows {
		if row[0] == date {
			records = append(records, rowAttendance(row))
		}
	}
	return records, nil
}

// SummaryForDate aggregates one day against the register size. Students
// without a row count as absent.
func (s *Store) SummaryForDate(date string) (Summary, error) {
	students, err := s.ListStudents()
	if err != nil {
		return Summary{}, err
	}
	records, err := s.AttendanceForDate(date)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Total: len(students), Present: len(records)}
	if sum.Absent = sum.Total - sum.Present; sum.Absent < 0 {
		sum.Absent = 0
	}
	return sum, nil
}

// AttendanceInRange returns the rows from the last days days including
// today, optionally filtered to one PRN. days <= 0 means no date filter;
// rows with unparseable dates are dropped from filtered queries.
func (s *Store) AttendanceInRange(days int, prn string) ([]AttendanceRecord, error) {
	rows, err := s.readAll(attendanceFile, len(attendanceHeader))
	if err != nil {
		return nil, err
	}
	var cutoff time.Time
	if days > 0 {
		y, m, d := s.now().Date()
		cutoff = time.Date(y, m, d, 0, 0, 0, 0, time.Local).AddDate(0, 0, -(days - 1))
	}
	var records []AttendanceRecord
	for _, row := range rows {
		if prn != "" && row[1] != prn {
			continue
		}
		if days > 0 {
			dt, err := time.ParseInLocation(dateLayout, row[0], time.Local)
			if err != nil || dt.Before(cutoff) {
				continue
			}
		}
		records = append(records, rowAttendance(row))
	}
	return records, nil
}

// LowAttendanceReport lists every student whose present-day count over the
// last days days falls below threshold percent of those days.
func (s *Store) LowAttendanceReport(threshold float64, days int) ([]Standing, error) {
	students, err := s.ListStudents()
	if err != nil {
		return nil, err
	}
	var report []Standing
	for _, st := range students {
		records, err := s.AttendanceInRange(days, st.PRN)
		if err != nil {
			return nil, err
		}
		present := 0
		for _, rec := range records {
			if strings.EqualFold(rec.Status, statusPresent) {
				present++
			}
		}
		var pct float64
		if days > 0 {
			pct = float64(present) / float64(days) * 100
		}
		if pct >= threshold {
			continue
		}
		report = append(report, Standing{
			PRN:          st.PRN,
			Name:         st.FullName,
			Present:      present,
			Total:        days,
			Percentage:   math.Round(pct*100) / 100,
			StudentPhone: st.StudentPhone,
			ParentPhone:  st.ParentPhone,
			Year:         st.Year,
			Branch:       st.Branch,
			Semester:     st.Semester,
		})
	}
	return report, nil
}
