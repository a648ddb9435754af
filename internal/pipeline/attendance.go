package pipeline

import (
	"errors"
	"fmt"

	"github.com/acadix/scan/internal/store"
)

// ErrUnknownStudent reports a recognized identity with no matching student
// record, so attendance cannot be attributed.
var ErrUnknownStudent = errors.New("recognized name not found in student records")

// RecordStore is the slice of the student register the attendance step
// needs. Implemented by store.Store.
type RecordStore interface {
	FindStudentByName(name string) (*store.Student, error)
	MarkPresentIfAbsent(prn, rollNo, name string) (store.MarkResult, error)
}

// MarkRecognized resolves the matched identity to a student record and marks
// them present for today. Marking is idempotent per student and day; the
// result says whether a new row was written.
func MarkRecognized(records RecordStore, match Match) (store.MarkResult, error) {
	student, err := records.FindStudentByName(match.Identity)
	if err != nil {
		return store.MarkResult{}, fmt.Errorf("looking up %q: %w", match.Identity, err)
	}
	if student == nil {
		return store.MarkResult{}, fmt.Errorf("%w: %s", ErrUnknownStudent, match.Identity)
	}
	res, err := records.MarkPresentIfAbsent(student.PRN, student.RollNo, student.FullName)
	if err != nil {
		return store.MarkResult{}, fmt.Errorf("marking %q present: %w", match.Identity, err)
	}
	return res, nil
}
