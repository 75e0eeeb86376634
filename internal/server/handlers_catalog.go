package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/terrapump/internal/models"
)

func (s *Server) handleEquipmentTypes(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		ID      models.EquipmentType `json:"id"`
		Display string               `json:"display"`
	}
	out := make([]entry, len(models.EquipmentTypes))
	for i, t := range models.EquipmentTypes {
		out[i] = entry{ID: t, Display: t.Display()}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCatalogOptions returns the selectable candidates for one
// equipment type. Catalog failures degrade to empty lists so the form
// can fall back to free-text entry.
func (s *Server) handleCatalogOptions(w http.ResponseWriter, r *http.Request) {
	et, err := models.ParseEquipmentType(r.URL.Query().Get("type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	brandID := r.URL.Query().Get("brand")
	writeJSON(w, http.StatusOK, s.catalog.CandidatesFor(r.Context(), et, brandID))
}

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.catalog.Brands(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

func (s *Server) handleListMachines(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "brandID")

	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		et, err := models.ParseEquipmentType(typeParam)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		machines, err := s.catalog.MachinesForType(r.Context(), brandID, et)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, machines)
		return
	}

	machines, err := s.catalog.Machines(r.Context(), brandID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, machines)
}

func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	attachments, err := s.catalog.Attachments(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, attachments)
}

func (s *Server) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		et, err := models.ParseEquipmentType(typeParam)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		library, err := s.catalog.LibraryFor(r.Context(), et)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, library)
		return
	}

	library, err := s.catalog.Library(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, library)
}

func (s *Server) handleCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	s.catalog.Refresh()
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (s *Server) handleUpsertBrand(w http.ResponseWriter, r *http.Request) {
	var b models.Brand
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	b.ID = chi.URLParam(r, "brandID")
	if b.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if err := s.catalog.UpsertBrand(r.Context(), b); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteBrand(r.Context(), chi.URLParam(r, "brandID")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUpsertMachine(w http.ResponseWriter, r *http.Request) {
	var m models.Machine
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	m.BrandID = chi.URLParam(r, "brandID")
	m.ID = chi.URLParam(r, "machineID")
	if m.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if err := s.catalog.UpsertMachine(r.Context(), m); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMachine(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "brandID")
	machineID := chi.URLParam(r, "machineID")
	if err := s.catalog.DeleteMachine(r.Context(), brandID, machineID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUpsertAttachment(w http.ResponseWriter, r *http.Request) {
	var a models.Attachment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	a.Name = chi.URLParam(r, "name")
	if err := s.catalog.UpsertAttachment(r.Context(), a); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteAttachment(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUpsertLibraryExercise(w http.ResponseWriter, r *http.Request) {
	var e models.LibraryExercise
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	e.Name = chi.URLParam(r, "name")
	if _, err := models.ParseEquipmentType(string(e.Type)); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.catalog.UpsertLibraryExercise(r.Context(), e); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteLibraryExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteLibraryExercise(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
