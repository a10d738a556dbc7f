// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotels_merge/internal/app"
	"hotels_merge/internal/domain"
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	if h.Q.RunLogEnabled() {
		s.mux.Get("/v1/refresh-runs", h.listRuns)
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeQueryError maps service errors onto the HTTP contract.
func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotReady):
		writeProblem(w, http.StatusServiceUnavailable, "Not Ready", "hotels data not available, please try again later")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "no hotels found matching the criteria")
	default:
		log.Error().Err(err).Msg("query failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "an error occurred while processing your request")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "an error occurred while processing your request")
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// parseHotelsQuery requires at least one of destination / hotels to be
// non-blank. hotels is a comma separated id list.
func parseHotelsQuery(r *http.Request) (domain.HotelsQuery, string) {
	var q domain.HotelsQuery
	dest := strings.TrimSpace(r.URL.Query().Get("destination"))
	hotels := strings.TrimSpace(r.URL.Query().Get("hotels"))
	if dest == "" && hotels == "" {
		return q, "either destination or hotels parameter is required"
	}
	if dest != "" {
		n, err := strconv.Atoi(dest)
		if err != nil {
			return q, "destination must be an integer"
		}
		q.DestinationID = &n
	}
	if hotels != "" {
		for _, id := range strings.Split(hotels, ",") {
			if id = strings.TrimSpace(id); id != "" {
				q.HotelIDs = append(q.HotelIDs, id)
			}
		}
		if len(q.HotelIDs) == 0 {
			return q, "hotels must list at least one id"
		}
	}
	return q, ""
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	q, invalid := parseHotelsQuery(r)
	if invalid != "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", invalid)
		return
	}
	out, err := h.Q.FindHotels(r.Context(), q)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Q.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, r, resp)
}

type runView struct {
	CycleID    string  `json:"cycle_id"`
	StartedAt  string  `json:"started_at"`
	FinishedAt string  `json:"finished_at"`
	Status     string  `json:"status"`
	Hotels     int     `json:"hotels"`
	Error      *string `json:"error,omitempty"`
}

func (h *Handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	runs, err := h.Q.RecentRuns(r.Context(), limit)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	out := make([]runView, 0, len(runs))
	for _, run := range runs {
		out = append(out, runView{
			CycleID:    run.CycleID,
			StartedAt:  run.StartedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			FinishedAt: run.FinishedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			Status:     run.Status,
			Hotels:     run.Hotels,
			Error:      run.Error,
		})
	}
	writeJSON(w, r, out)
}
