package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/terrapump/internal/models"
	"github.com/meltforce/terrapump/internal/session"
	"github.com/meltforce/terrapump/internal/storage"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) userSession(w http.ResponseWriter, r *http.Request) (*session.Service, bool) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return nil, false
	}
	return s.sessions.ForUser(uid), true
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, svc.State())
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}
	state, err := svc.Start(req.Name)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSessionResume(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	state, err := svc.Resume(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSessionDiscard(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	if err := svc.Discard(r.Context()); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, svc.State())
}

func (s *Server) handleSelectType(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	et, err := models.ParseEquipmentType(req.Type)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	state, err := svc.SelectType(et)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSelectExercise(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	var req struct {
		Exercise   string `json:"exercise"`
		BrandID    string `json:"brand_id"`
		BrandName  string `json:"brand_name"`
		Machine    string `json:"machine"`
		Attachment string `json:"attachment"`
		Unilateral bool   `json:"unilateral"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	state, err := svc.SelectExercise(session.SelectExercise{
		Exercise:   req.Exercise,
		BrandID:    req.BrandID,
		BrandName:  req.BrandName,
		Machine:    req.Machine,
		Attachment: req.Attachment,
		Unilateral: req.Unilateral,
	})
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	seed, err := svc.Seed(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, seed)
}

func (s *Server) handleSetSetCount(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	state, err := svc.SetSetCount(req.Count)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	state, err := svc.AddSet()
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	state, err := svc.RemoveSet()
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	var entry models.LoggedExercise
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	state, err := svc.Commit(r.Context(), entry)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleRemoveLogged(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry index"})
		return
	}
	state, err := svc.RemoveLogged(index)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	state, err := svc.SaveProgress(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.userSession(w, r)
	if !ok {
		return
	}
	rec, err := svc.End(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleGetPreviousStats reads one previous-stats cache document by its
// exact stats key. Key variant probing is the caller's concern.
func (s *Server) handleGetPreviousStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	stats, err := s.db.GetPreviousStats(r.Context(), uid, key)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if stats == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no stats for " + key})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps session lifecycle and storage sentinels to HTTP
// statuses. Unrecognized errors get the handler's fallback: 400 for
// reducer validation paths, 500 for persistence paths.
func writeError(w http.ResponseWriter, err error, fallback int) {
	status := fallback
	switch {
	case errors.Is(err, session.ErrSessionActive),
		errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrNotDirty),
		errors.Is(err, session.ErrNoPending),
		errors.Is(err, storage.ErrDuplicateStart):
		status = http.StatusConflict
	case errors.Is(err, session.ErrNoDraft):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
