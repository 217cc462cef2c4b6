package server

import (
	"errors"
	"net/http"

	"github.com/meltforce/kinetic/internal/ingest/alpha"
)

// maxImportBytes bounds an uploaded export.
const maxImportBytes = 16 << 20

// handleAlphaImport takes an Alpha Progression CSV export as the request
// body. ?warmups=true keeps warmup sets.
func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	p := *s.alpha
	p.Warmups = r.URL.Query().Get("warmups") == "true"

	result, err := p.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBytes))
	if errors.Is(err, alpha.ErrMalformed) {
		s.log.Warn("alpha import rejected", "error", err)
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
