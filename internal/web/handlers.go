package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/acadix/scan/internal/store"
)

const errInvalidRequestBody = "invalid request body"

const dateLayout = "02-01-2006"

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.ListStudents()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"students": students,
		"count":    len(students),
	})
}

func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var student store.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if err := s.store.AddStudent(student); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, student)
}

func (s *Server) handleStudentAlerts(w http.ResponseWriter, r *http.Request) {
	prn := chi.URLParam(r, "prn")
	alerts, err := s.store.AlertsForStudent(prn)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// queryDate reads the date query parameter (dd-mm-yyyy), defaulting to today.
func queryDate(r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return time.Now().Format(dateLayout), true
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", false
	}
	return date, true
}

func (s *Server) handleAttendanceForDate(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "date must be in dd-mm-yyyy format")
		return
	}
	records, err := s.store.AttendanceForDate(date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"date":    date,
		"records": records,
		"count":   len(records),
	})
}

func (s *Server) handleAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "date must be in dd-mm-yyyy format")
		return
	}
	summary, err := s.store.SummaryForDate(date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"date":    date,
		"total":   summary.Total,
		"present": summary.Present,
		"absent":  summary.Absent,
	})
}

func (s *Server) handleLowAttendance(w http.ResponseWriter, r *http.Request) {
	threshold := 75.0
	if v := r.URL.Query().Get("threshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "threshold must be a percentage")
			return
		}
		threshold = parsed
	}
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "days must be a positive number")
			return
		}
		days = parsed
	}

	report, err := s.store.LowAttendanceReport(threshold, days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"threshold": threshold,
		"days":      days,
		"students":  report,
		"count":     len(report),
	})
}

func (s *Server) handleSendAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PRN     string `json:"prn"`
		Target  string `json:"target"`
		Message string `json:"message"`
		Sender  string `json:"sender"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Target != "student" && req.Target != "parent" {
		respondError(w, http.StatusBadRequest, "target must be student or parent")
		return
	}
	if req.Sender == "" {
		req.Sender = "system"
	}
	alert, err := s.store.SendAlert(req.PRN, req.Target, req.Message, req.Sender)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, alert)
}

func (s *Server) handleListIdentities(w http.ResponseWriter, r *http.Request) {
	identities, err := s.corpus.Identities()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	type identityInfo struct {
		Name    string `json:"name"`
		Samples int    `json:"samples"`
	}
	infos := make([]identityInfo, 0, len(identities))
	for _, identity := range identities {
		files, err := s.corpus.SampleFiles(identity)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		infos = append(infos, identityInfo{Name: identity, Samples: len(files)})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"identities": infos,
		"count":      len(infos),
	})
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	if s.train == nil {
		respondError(w, http.StatusServiceUnavailable, "training is not available")
		return
	}
	res, err := s.train()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"identities": res.Identities,
		"samples":    res.Samples,
	})
}
