package adminserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/specialistvlad/formgrid/internal/fieldpath"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

type formSummary struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	Status     string `json:"status"`
	Submitting bool   `json:"submitting"`
}

func (s *Server) handleListForms(w http.ResponseWriter, _ *http.Request) {
	out := []formSummary{}
	for _, name := range s.forms.Names() {
		f, ok := s.forms.Lookup(name)
		if !ok {
			continue
		}
		st := f.State()
		out = append(out, formSummary{Name: name, ID: f.ID(), Status: string(st.Status), Submitting: st.Submitting})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, ok := s.forms.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("form %q not found", name))
		return
	}
	writeJSON(w, http.StatusOK, f.View())
}

func (s *Server) handleGetField(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, ok := s.forms.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("form %q not found", name))
		return
	}
	path, err := fieldpath.Parse(chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fv, ok := f.Field(path)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("field %q not found", path))
		return
	}
	writeJSON(w, http.StatusOK, fv)
}
