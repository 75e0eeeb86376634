package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/terrapump/internal/models"
)

const dateLayout = "2006-01-02"

// handleListEntries returns daily health entries in a date range,
// defaulting to the last 30 days.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if to == "" {
		to = time.Now().Format(dateLayout)
	}
	if from == "" {
		from = time.Now().AddDate(0, 0, -30).Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, from); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from date (YYYY-MM-DD)"})
		return
	}
	if _, err := time.Parse(dateLayout, to); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to date (YYYY-MM-DD)"})
		return
	}

	entries, err := s.db.ListDailyEntries(r.Context(), uid, from, to)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(dateLayout, date); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date (YYYY-MM-DD)"})
		return
	}

	entry, err := s.db.GetDailyEntry(r.Context(), uid, date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no entry for " + date})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleUpsertEntry writes one day's metrics. The path date wins over
// any date in the body.
func (s *Server) handleUpsertEntry(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(dateLayout, date); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date (YYYY-MM-DD)"})
		return
	}

	var entry models.DailyEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	entry.Date = date

	if err := s.db.UpsertDailyEntry(r.Context(), uid, entry); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
