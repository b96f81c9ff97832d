// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"hotel_finder/internal/adapters/agenttool"
	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

const (
	maxBodyBytes     = 1 << 20
	defaultListLimit = 50
	maxListLimit     = 200
)

type Searcher interface {
	Search(ctx context.Context, c domain.SearchConstraints) (domain.SearchResponse, error)
}

// Handlers serves the search API. Catalog and Tools are optional; their routes
// answer 404 when unset.
type Handlers struct {
	Search  Searcher
	Catalog domain.HotelCatalog
	Tools   *agenttool.Dispatcher
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/hotels/search", h.postSearch)
	s.mux.Get("/v1/hotels/search", h.getSearch)
	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/hotels/{code}", h.getHotel)
	s.mux.Get("/v1/agent/tools", h.listTools)
	s.mux.Post("/v1/agent/tools/{name}", h.callTool)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps a search failure onto a problem response.
func writeError(w http.ResponseWriter, err error) {
	var pe *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrInvalidConstraints):
		writeProblem(w, http.StatusBadRequest, "Invalid search", err.Error())
	case errors.Is(err, domain.ErrUnsupportedPolicy):
		writeProblem(w, http.StatusBadRequest, "Unsupported cancellation policy", err.Error())
	case errors.Is(err, agenttool.ErrUnknownTool):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
	case errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusGatewayTimeout, "Search timed out", "the hotel provider did not answer in time")
	case errors.As(err, &pe):
		if pe.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(pe.RetryAfter.Seconds())))
		}
		writeProblem(w, http.StatusBadGateway, "Provider error", pe.Error())
	case errors.Is(err, domain.ErrMalformedDocument):
		writeProblem(w, http.StatusBadGateway, "Provider error", err.Error())
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
		w.WriteHeader(499)
	default:
		log.Error().Err(err).Msg("unhandled search error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends v, with a weak ETag when etag is set.
func writeJSON(w http.ResponseWriter, r *http.Request, v any, etag bool) {
	tag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if etag {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == tag {
			w.Header().Set("ETag", tag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", tag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) postSearch(w http.ResponseWriter, r *http.Request) {
	var req app.SearchRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	h.search(w, r, req, false)
}

func (h *Handlers) getSearch(w http.ResponseWriter, r *http.Request) {
	req, err := searchRequestFromQuery(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid search", err.Error())
		return
	}
	h.search(w, r, req, true)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request, req app.SearchRequest, etag bool) {
	c, err := req.Constraints()
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Search.Search(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set(headerSearchID, resp.SearchID)
	w.Header().Set(headerSearchOutcome, resp.Result.Outcome())
	if etag {
		// the search id changes on every call; hash the stable part only
		writeJSON(w, r, struct {
			Constraints domain.SearchConstraints `json:"constraints"`
			Result      domain.SelectionResult   `json:"result"`
			Cards       []domain.DisplayCard     `json:"cards"`
		}{resp.Constraints, resp.Result, resp.Cards}, true)
		return
	}
	writeJSON(w, r, resp, false)
}

func searchRequestFromQuery(r *http.Request) (app.SearchRequest, error) {
	q := r.URL.Query()
	req := app.SearchRequest{
		Destination:        q.Get("destination"),
		CheckIn:            q.Get("check_in"),
		CheckOut:           q.Get("check_out"),
		CancellationPolicy: q.Get("cancellation_policy"),
		Deadline:           q.Get("deadline"),
		BoardCode:          q.Get("board_code"),
		Mode:               q.Get("mode"),
	}
	if v := q.Get("hotel_codes"); v != "" {
		req.HotelCodes = strings.Split(v, ",")
	}
	ints := []struct {
		key string
		dst *int
	}{{"rooms", &req.Rooms}, {"adults", &req.Adults}, {"children", &req.Children}, {"top_n", &req.TopN}}
	for _, f := range ints {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New(f.key + " must be an integer")
		}
		*f.dst = n
	}
	if v := q.Get("budget"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return req, errors.New("budget must be a number")
		}
		req.Budget = &d
	}
	if v := q.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, errors.New("min_rating must be a number")
		}
		req.MinRating = &f
	}
	return req, nil
}

type hotelView struct {
	domain.HotelStatic
	TypeLabel string           `json:"type_label"`
	Amenities []domain.Amenity `json:"amenities"`
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel catalog is not configured")
		return
	}
	hs, err := h.Catalog.GetHotel(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, hotelView{
		HotelStatic: hs,
		TypeLabel:   app.TypeLabel(hs.CategoryCode),
		Amenities:   app.ResolveAmenities(hs.AmenityCodes),
	}, true)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel catalog is not configured")
		return
	}
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid city", "city is required")
		return
	}
	limit := defaultListLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > maxListLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	out, err := h.Catalog.ListHotels(r.Context(), city, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out, true)
}

func (h *Handlers) listTools(w http.ResponseWriter, r *http.Request) {
	if h.Tools == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "agent tools are not enabled")
		return
	}
	writeJSON(w, r, h.Tools.Tools(), true)
}

type toolResponse struct {
	Tool    string                `json:"tool"`
	Content string                `json:"content"`
	Result  domain.SearchResponse `json:"result"`
}

func (h *Handlers) callTool(w http.ResponseWriter, r *http.Request) {
	if h.Tools == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "agent tools are not enabled")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	res, err := h.Tools.Call(r.Context(), chi.URLParam(r, "name"), string(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, toolResponse{Tool: res.Tool, Content: res.Summary, Result: res.Response}, false)
}
