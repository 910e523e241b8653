package server

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"aqarna-listings/internal/catalog"
	apperrors "aqarna-listings/internal/common/errors"
	"aqarna-listings/internal/common/metrics"
	"aqarna-listings/internal/common/observability"
	"aqarna-listings/internal/geo"
	"aqarna-listings/internal/listings/page"
	"aqarna-listings/internal/listings/selection"
	"aqarna-listings/internal/listings/session"
)

const maxEventBody = 16 << 10

type listingsHandler struct {
	sessions *session.Manager
	errors   *apperrors.ErrorHandler
	obs      *observability.Observability
}

// event applies fn to the caller's page and responds with the new view.
func (h *listingsHandler) event(name string, fn func(r *http.Request, p *page.Page) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var view page.View
		err := h.sessions.With(r.Context(), SessionID(r.Context()), InteractionMode(r), func(p *page.Page) error {
			if err := fn(r, p); err != nil {
				return err
			}
			view = h.render(r, p)
			return nil
		})
		if err != nil {
			h.obs.RecordEvent(r.Context(), name, "rejected")
			h.errors.Handle(w, r, err)
			return
		}
		metrics.ListingEvents.WithLabelValues(name).Inc()
		h.obs.RecordEvent(r.Context(), name, "applied")
		w.Header().Set("ETag", etag(view.Fingerprint))
		apperrors.WriteJSON(w, http.StatusOK, view)
	}
}

func (h *listingsHandler) render(r *http.Request, p *page.Page) page.View {
	before := p.Stats().FilterComputations
	start := time.Now()
	view := p.View(Language(r.Context()))
	h.obs.RecordDerive(r.Context(), time.Since(start), p.Stats().FilterComputations == before)
	metrics.FilteredResults.Observe(float64(view.Count))
	return view
}

// load starts a new page lifetime and applies the query string once.
func (h *listingsHandler) load(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Reset(r.Context(), SessionID(r.Context())); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.event("load", func(r *http.Request, p *page.Page) error {
		p.InitFromURL(r.URL.Query())
		return nil
	})(w, r)
}

func (h *listingsHandler) view(w http.ResponseWriter, r *http.Request) {
	var (
		view        page.View
		notModified bool
	)
	err := h.sessions.With(r.Context(), SessionID(r.Context()), InteractionMode(r), func(p *page.Page) error {
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag(p.Fingerprint()) {
			notModified = true
			return nil
		}
		view = h.render(r, p)
		return nil
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if notModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag(view.Fingerprint))
	apperrors.WriteJSON(w, http.StatusOK, view)
}

func (h *listingsHandler) mapView(w http.ResponseWriter, r *http.Request) {
	precision, err := clusterPrecision(r.URL.Query().Get("precision"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var (
		mv          page.MapView
		tag         string
		notModified bool
	)
	err = h.sessions.With(r.Context(), SessionID(r.Context()), InteractionMode(r), func(p *page.Page) error {
		tag = etag(p.Fingerprint() + "-" + strconv.FormatUint(uint64(precision), 10))
		if r.Header.Get("If-None-Match") == tag {
			notModified = true
			return nil
		}
		mv = p.MapView(Language(r.Context()), precision)
		return nil
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.Header().Set("ETag", tag)
	if notModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, mv)
}

func clusterPrecision(raw string) (uint, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > int(geo.MaxClusterPrecision) {
		return 0, apperrors.NewValidationError("precision must be between 0 and 9")
	}
	return uint(n), nil
}

// filtersPatch distinguishes absent keys from explicit nulls.
type filtersPatch map[string]json.RawMessage

func (fp filtersPatch) has(key string) bool {
	_, ok := fp[key]
	return ok
}

func (fp filtersPatch) isNull(key string) bool {
	return bytes.Equal(bytes.TrimSpace(fp[key]), []byte("null"))
}

func (h *listingsHandler) patchFilters(r *http.Request, p *page.Page) error {
	var patch filtersPatch
	if err := decodeBody(r, &patch); err != nil {
		return err
	}

	if patch.has("query") {
		var q string
		if !patch.isNull("query") {
			if err := json.Unmarshal(patch["query"], &q); err != nil {
				return apperrors.NewValidationError("query must be a string")
			}
		}
		p.SetQuery(q)
	}
	if patch.has("maxPrice") {
		v, err := optionalFloat(patch, "maxPrice")
		if err != nil {
			return err
		}
		p.SetMaxPrice(v)
	}
	if patch.has("propertyType") {
		var t string
		if !patch.isNull("propertyType") {
			if err := json.Unmarshal(patch["propertyType"], &t); err != nil {
				return apperrors.NewValidationError("propertyType must be a string")
			}
		}
		p.SetPropertyType(t)
	}
	if patch.has("bedsMin") {
		v, err := optionalInt(patch, "bedsMin")
		if err != nil {
			return err
		}
		p.SetBedsMin(v)
	}
	if patch.has("bathsMin") {
		v, err := optionalInt(patch, "bathsMin")
		if err != nil {
			return err
		}
		p.SetBathsMin(v)
	}
	return nil
}

func optionalFloat(patch filtersPatch, key string) (*float64, error) {
	if patch.isNull(key) {
		return nil, nil
	}
	var v float64
	if err := json.Unmarshal(patch[key], &v); err != nil {
		return nil, apperrors.NewValidationError(key + " must be a number or null")
	}
	return &v, nil
}

func optionalInt(patch filtersPatch, key string) (*int, error) {
	v, err := optionalFloat(patch, key)
	if err != nil || v == nil {
		return nil, err
	}
	if *v != math.Trunc(*v) || math.Abs(*v) > math.MaxInt32 {
		return nil, apperrors.NewValidationError(key + " must be a whole number")
	}
	n := int(*v)
	return &n, nil
}

func (h *listingsHandler) setTransactionType(r *http.Request, p *page.Page) error {
	var body struct {
		Type string `json:"type"`
	}
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	t, ok := catalog.ParseTransactionType(body.Type)
	if !ok {
		return apperrors.NewValidationError("type must be 'buy' or 'rent'")
	}
	p.SetTransactionType(t)
	return nil
}

func (h *listingsHandler) toggleGovernorate(r *http.Request, p *page.Page) error {
	p.ToggleGovernorate(chi.URLParam(r, "id"))
	return nil
}

func (h *listingsHandler) toggleArea(r *http.Request, p *page.Page) error {
	p.ToggleArea(chi.URLParam(r, "id"))
	return nil
}

func (h *listingsHandler) clear(r *http.Request, p *page.Page) error {
	switch r.URL.Query().Get("scope") {
	case "", "filters":
		p.ClearFilters()
	case "search":
		p.ClearSearch()
	case "all":
		p.ShowAll()
	case "buy":
		p.SwitchToBuy()
	default:
		return apperrors.NewValidationError("scope must be filters, search, all or buy")
	}
	return nil
}

type propertyRef struct {
	PropertyID string `json:"propertyId"`
}

func (h *listingsHandler) selectProperty(r *http.Request, p *page.Page) error {
	var body propertyRef
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	if body.PropertyID == "" {
		p.Deselect()
		return nil
	}
	p.Select(body.PropertyID)
	return nil
}

func (h *listingsHandler) hover(r *http.Request, p *page.Page) error {
	var body propertyRef
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	p.Hover(body.PropertyID)
	return nil
}

func (h *listingsHandler) setMobileView(r *http.Request, p *page.Page) error {
	var body struct {
		View string `json:"view"`
	}
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	v, ok := selection.ParseMobileView(body.View)
	if !ok {
		return apperrors.NewValidationError("view must be 'map' or 'list'")
	}
	p.SetMobileView(v)
	return nil
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		return apperrors.NewInvalidJSONError(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperrors.NewInvalidJSONError(err)
	}
	return nil
}

func etag(fingerprint string) string {
	return `"` + fingerprint + `"`
}
