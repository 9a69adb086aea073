// ABOUTME: Route handlers for the JSON API
// ABOUTME: Maps domain errors to status codes and writes {"error": msg} bodies
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/harperreed/solocrm/backup"
	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
	"github.com/harperreed/solocrm/viz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrMalformedImport):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		writeError(w, status, verr.Message)
		return
	}
	writeError(w, status, err.Error())
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrInvalidInput, err)
	}
	return nil
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	view := store.Reduce(session.State(), store.SetSearchQuery{Query: q.Get("q")})
	view = store.Reduce(view, store.SetFilterTag{Tag: q.Get("tag")})
	if sortBy := q.Get("sort"); sortBy != "" {
		key, err := models.ParseSortKey(sortBy)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		view = store.Reduce(view, store.SetSortBy{SortBy: key})
	}
	writeJSON(w, http.StatusOK, store.VisibleContacts(view))
}

func (s *Server) createContact(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	var contact models.Contact
	if err := decodeBody(r, &contact); err != nil {
		s.writeErr(w, err)
		return
	}
	created, err := session.AddContact(r.Context(), contact)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	session.LogActivity(r.Context(), "create", "contacts", "Created contact "+created.FullName(), map[string]any{"contact_id": created.ID})
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateContact(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	var contact models.Contact
	if err := decodeBody(r, &contact); err != nil {
		s.writeErr(w, err)
		return
	}
	contact.ID = chi.URLParam(r, "id")
	updated, err := session.UpdateContact(r.Context(), contact)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	session.LogActivity(r.Context(), "update", "contacts", "Updated contact "+updated.FullName(), map[string]any{"contact_id": updated.ID})
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	name := store.ContactName(session.State(), id)
	if err := session.DeleteContact(r.Context(), id); err != nil {
		s.writeErr(w, err)
		return
	}
	session.LogActivity(r.Context(), "delete", "contacts", "Deleted contact "+name, map[string]any{"contact_id": id})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listInteractions(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	query := store.InteractionQuery{SortBy: q.Get("sort")}
	if t := q.Get("type"); t != "" {
		parsed, err := models.ParseInteractionType(t)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		query.Type = parsed
	}
	view := store.Reduce(session.State(), store.SetSearchQuery{Query: q.Get("q")})
	contactID := q.Get("contact")
	out := []models.Interaction{}
	for _, i := range store.VisibleInteractions(view, query) {
		if contactID == "" || i.ContactID == contactID {
			out = append(out, i)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createInteraction(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	var interaction models.Interaction
	if err := decodeBody(r, &interaction); err != nil {
		s.writeErr(w, err)
		return
	}
	created, err := session.AddInteraction(r.Context(), interaction)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	session.LogActivity(r.Context(), "create", "interactions",
		fmt.Sprintf("Logged %s with %s", created.Type, store.ContactName(session.State(), created.ContactID)),
		map[string]any{"interaction_id": created.ID, "contact_id": created.ContactID})
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateInteraction(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	var interaction models.Interaction
	if err := decodeBody(r, &interaction); err != nil {
		s.writeErr(w, err)
		return
	}
	interaction.ID = chi.URLParam(r, "id")
	updated, err := session.UpdateInteraction(r.Context(), interaction)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	session.LogActivity(r.Context(), "update", "interactions", "Updated interaction", map[string]any{"interaction_id": updated.ID})
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteInteraction(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := session.DeleteInteraction(r.Context(), id); err != nil {
		s.writeErr(w, err)
		return
	}
	session.LogActivity(r.Context(), "delete", "interactions", "Deleted interaction", map[string]any{"interaction_id": id})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Settings())
}

type settingUpdate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	var req settingUpdate
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	if err := session.UpdateSetting(r.Context(), req.Key, req.Value); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Settings())
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	limit := crm.DefaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
	}
	activities, err := session.LoadActivities(r.Context(), limit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) clearActivity(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	if err := session.ClearActivities(r.Context()); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportData(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	now := s.now()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.Filename(now)))
	if err := backup.Export(w, session.State(), session.Settings(), now); err != nil {
		s.logger.Error("export failed", "err", err)
		return
	}
	session.LogActivity(r.Context(), "export", "settings", "Exported data", nil)
}

func (s *Server) importData(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	body := http.MaxBytesReader(w, r.Body, s.maxImportBytes)
	result, err := backup.Import(body, session.Store())
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("import file exceeds %d bytes", tooLarge.Limit))
		return
	}
	if err != nil {
		s.writeErr(w, err)
		return
	}
	session.LogActivity(r.Context(), "import", "settings", "Imported data",
		map[string]any{"contacts": result.ContactCount, "interactions": result.InteractionCount})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viz.GenerateDashboardStats(session.State(), session.Timezone(), s.now()))
}

func (s *Server) timezones(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dates.TimezoneOptions())
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	session, ok := s.withSession(w, r)
	if !ok {
		return
	}
	if err := session.Reload(r.Context()); err != nil {
		s.writeErr(w, err)
		return
	}
	state := session.State()
	writeJSON(w, http.StatusOK, map[string]int{
		"contacts":     len(state.Contacts),
		"interactions": len(state.Interactions),
	})
}
