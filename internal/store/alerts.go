package store

import (
	"fmt"

	"github.com/google/uuid"
)

// Alert is one row of the alert history.
type Alert struct {
	AlertID      string
	PRN          string
	StudentPhone string
	ParentPhone  string
	Target       string
	Message      string
	DateTime     string
	Sender       string
}

// SendAlert records an alert addressed to a student or their parent. The
// student's phone numbers are copied into the row so the history stays
// meaningful if the register changes later.
func (s *Store) SendAlert(prn, target, message, sender string) (Alert, error) {
	student, err := s.FindStudentByPRN(prn)
	if err != nil {
		return Alert{}, err
	}
	if student == nil {
		return Alert{}, fmt.Errorf("cannot send alert: no student with PRN %s", prn)
	}

	alert := Alert{
		AlertID:      uuid.New().String(),
		PRN:          prn,
		StudentPhone: student.StudentPhone,
		ParentPhone:  student.ParentPhone,
		Target:       target,
		Message:      message,
		DateTime:     s.now().Format("2006-01-02 15:04:05"),
		Sender:       sender,
	}

	rows, err := s.readAll(alertsFile, len(alertHeader))
	if err != nil {
		return Alert{}, err
	}
	rows = append(rows, []string{alert.AlertID, alert.PRN, alert.StudentPhone, alert.ParentPhone, alert.Target, alert.Message, alert.DateTime, alert.Sender})
	if err := s.writeAll(alertsFile, alertHeader, rows); err != nil {
		return Alert{}, err
	}
	return alert, nil
}

// AlertsForStudent returns the alert history for one PRN in file order.
func (s *Store) AlertsForStudent(prn string) ([]Alert, error) {
	rows, err := s.readAll(alertsFile, len(alertHeader))
	if err != nil {
		return nil, err
	}
	var alerts []Alert
	for _, row := range rows {
		if row[1] != prn {
			continue
		}
		alerts = append(alerts, Alert{
			AlertID:      row[0],
			PRN:          row[1],
			StudentPhone: row[2],
			ParentPhone:  row[3],
			Target:       row[4],
			Message:      row[5],
			DateTime:     row[6],
			Sender:       row[7],
		})
	}
	return alerts, nil
}
