package server

import (
	"context"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aqarna-listings/internal/catalog"
	apperrors "aqarna-listings/internal/common/errors"
	"aqarna-listings/internal/geo"
	"aqarna-listings/internal/geodata"
	"aqarna-listings/internal/i18n"
)

type referenceHandler struct {
	catalog *catalog.Catalog
	geo     *geodata.Index
	dict    *i18n.Dictionary
	errors  *apperrors.ErrorHandler
	health  func(ctx context.Context) error
}

type areaDTO struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Center geo.Coordinates `json:"center"`
}

type governorateDTO struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Areas []areaDTO `json:"areas"`
}

func (h *referenceHandler) governorates(w http.ResponseWriter, r *http.Request) {
	lang := Language(r.Context())
	govs := h.geo.Governorates()
	out := make([]governorateDTO, 0, len(govs))
	for _, g := range govs {
		areas := make([]areaDTO, 0, len(g.Areas))
		for _, a := range g.Areas {
			areas = append(areas, areaDTO{ID: a.ID, Name: a.Name.Get(lang), Center: a.Center})
		}
		out = append(out, governorateDTO{ID: g.ID, Name: g.Name.Get(lang), Areas: areas})
	}
	apperrors.WriteJSON(w, http.StatusOK, out)
}

func (h *referenceHandler) dictionary(w http.ResponseWriter, r *http.Request) {
	lang, ok := i18n.Parse(chi.URLParam(r, "lang"))
	if !ok {
		h.errors.Handle(w, r, apperrors.NewNotFoundError("Language", chi.URLParam(r, "lang")))
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"lang":    lang,
		"dir":     lang.Dir(),
		"strings": h.dict.Strings(lang),
	})
}

func (h *referenceHandler) setLanguage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Lang string `json:"lang"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	lang, ok := i18n.Parse(body.Lang)
	if !ok {
		h.errors.Handle(w, r, apperrors.NewValidationError("lang must be 'en' or 'ar'"))
		return
	}
	LanguageContext(r.Context()).Set(lang)
	apperrors.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"lang": lang,
		"dir":  lang.Dir(),
	})
}

type propertyDetail struct {
	ID            string                  `json:"id"`
	Title         string                  `json:"title"`
	Location      string                  `json:"location"`
	Price         float64                 `json:"price"`
	PriceLabel    string                  `json:"priceLabel"`
	Bedrooms      int                     `json:"bedrooms"`
	Bathrooms     int                     `json:"bathrooms"`
	Area          float64                 `json:"area"`
	Image         string                  `json:"image"`
	Type          catalog.TransactionType `json:"type"`
	PropertyType  string                  `json:"propertyType,omitempty"`
	AreaName      string                  `json:"areaName,omitempty"`
	Mappable      bool                    `json:"mappable"`
	Coordinates   *geo.Coordinates        `json:"coordinates,omitempty"`
	DistanceKm    *float64                `json:"distanceFromCityKm,omitempty"`
	LocationLabel string                  `json:"locationLabel,omitempty"`
}

func (h *referenceHandler) property(w http.ResponseWriter, r *http.Request) {
	lang := Language(r.Context())
	id := chi.URLParam(r, "id")

	p, ok := h.catalog.Find(id)
	if !ok {
		err := apperrors.NewNotFoundError("Property", id)
		err.Message = i18n.T("propertyNotFound", lang)
		h.errors.Handle(w, r, err)
		return
	}

	d := propertyDetail{
		ID:           p.ID,
		Title:        p.LocalizedTitle(lang),
		Location:     p.LocalizedLocation(lang),
		Price:        p.Price,
		PriceLabel:   i18n.FormatPrice(p.Price, p.Type == catalog.Rent, lang),
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Image:        p.Image,
		Type:         p.Type,
		PropertyType: p.PropertyType,
	}
	if p.AreaInfo != nil {
		d.AreaName = p.AreaInfo.Name().Get(lang)
	}
	if c, ok := geo.SanitizeOptional(p.Lat, p.Lng); ok {
		d.Mappable = true
		d.Coordinates = &c
		km := math.Round(geo.DistanceKm(geo.KuwaitCity, c)*10) / 10
		d.DistanceKm = &km
	} else {
		d.LocationLabel = i18n.T("locationNotAvailable", lang)
	}
	apperrors.WriteJSON(w, http.StatusOK, d)
}

func (h *referenceHandler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			apperrors.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
			return
		}
	}
	apperrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
