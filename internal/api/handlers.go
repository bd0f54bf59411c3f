// Package api exposes the command and query surface over HTTP. Handlers are
// thin: they decode the request, hand a typed command or query to the bus,
// and map the result (or error) onto the wire. All domain decisions live
// behind the bus.
package api

import (
	"net/http"
	"strconv"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/cqrs"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
)

// Handlers carries the dispatch bus shared by every endpoint.
type Handlers struct {
	bus *cqrs.Bus
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(bus *cqrs.Bus) *Handlers {
	return &Handlers{bus: bus}
}

// dispatch runs a command and writes the result with the given status.
func (h *Handlers) dispatch(w http.ResponseWriter, r *http.Request, cmd cqrs.Command, code int) {
	res, err := h.bus.Dispatch(r.Context(), cmd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, code, res)
}

// ask runs a query and writes the answer.
func (h *Handlers) ask(w http.ResponseWriter, r *http.Request, q cqrs.Query) {
	res, err := h.bus.Ask(r.Context(), q)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// pageFrom parses ?page= and ?limit= query params. Out-of-range values are
// normalized downstream.
func pageFrom(r *http.Request) domain.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return domain.PageRequest{Page: page, Limit: limit}
}
