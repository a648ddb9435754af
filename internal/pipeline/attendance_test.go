package pipeline

import (
	"errors"
	"testing"

	"github.com/acadix/scan/internal/store"
)

// fakeRecords is an in-memory RecordStore.
type fakeRecords struct {
	students []store.Student
	marked   map[string]bool
	calls    []string
}

func (f *fakeRecords) FindStudentByName(name string) (*store.Student, error) {
	for i := range f.students {
		if f.students[i].FullName == name {
			return &f.students[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRecords) MarkPresentIfAbsent(prn, rollNo, name string) (store.MarkResult, error) {
	f.calls = append(f.calls, prn)
	if f.marked == nil {
		f.marked = make(map[string]bool)
	}
	if f.marked[prn] {
		return store.MarkResult{Marked: false, Message: "Attendance already marked for today."}, nil
	}
	f.marked[prn] = true
	return store.MarkResult{Marked: true, Message: "Attendance marked successfully."}, nil
}

func TestMarkRecognized(t *testing.T) {
	records := &fakeRecords{students: []store.Student{
		{StudentID: "S1", FullName: "ana", PRN: "P1", RollNo: "7"},
	}}
	match := Match{Identity: "ana", Distance: 20, Confidence: 80}

	res, err := MarkRecognized(records, match)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Marked {
		t.Error("first recognition should mark attendance")
	}
	if len(records.calls) != 1 || records.calls[0] != "P1" {
		t.Errorf("expected one mark call for P1, got %v", records.calls)
	}

	// Second recognition on the same day is a no-op, not an error.
	res, err = MarkRecognized(records, match)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Marked {
		t.Error("repeat recognition must not mark again")
	}
	if res.Message != "Attendance already marked for today." {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestMarkRecognizedUnknownStudent(t *testing.T) {
	records := &fakeRecords{}
	_, err := MarkRecognized(records, Match{Identity: "ghost"})
	if !errors.Is(err, ErrUnknownStudent) {
		t.Errorf("expected ErrUnknownStudent, got %v", err)
	}
	if len(records.calls) != 0 {
		t.Error("unknown student must not be marked")
	}
}
