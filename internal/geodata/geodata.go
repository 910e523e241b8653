// Package geodata holds the static governorate/area hierarchy of Kuwait.
package geodata

import (
	"aqarna-listings/internal/geo"
	"aqarna-listings/internal/i18n"
)

// Area is a neighbourhood inside exactly one governorate.
type Area struct {
	ID     string          `json:"id"`
	Name   i18n.Text       `json:"name"`
	Center geo.Coordinates `json:"center"`
}

type Governorate struct {
	ID    string    `json:"id"`
	Name  i18n.Text `json:"name"`
	Areas []Area    `json:"areas"`
}

var (
	Dasma      = Area{ID: "dasma", Name: i18n.Text{En: "Dasma", Ar: "الدسمة"}, Center: geo.Coordinates{Lat: 29.3500, Lng: 48.0167}}
	Salmiya    = Area{ID: "salmiya", Name: i18n.Text{En: "Salmiya", Ar: "السالمية"}, Center: geo.Coordinates{Lat: 29.3375, Lng: 48.0758}}
	HawalliA   = Area{ID: "hawalli", Name: i18n.Text{En: "Hawalli", Ar: "حولي"}, Center: geo.Coordinates{Lat: 29.3333, Lng: 48.0833}}
	Jabriya    = Area{ID: "jabriya", Name: i18n.Text{En: "Jabriya", Ar: "الجابرية"}, Center: geo.Coordinates{Lat: 29.3167, Lng: 48.0500}}
	Salwa      = Area{ID: "salwa", Name: i18n.Text{En: "Salwa", Ar: "سلوى"}, Center: geo.Coordinates{Lat: 29.2833, Lng: 48.0833}}
	KuwaitCity = Area{ID: "kuwaitCity", Name: i18n.Text{En: "Kuwait City", Ar: "مدينة الكويت"}, Center: geo.Coordinates{Lat: 29.3759, Lng: 47.9774}}
	Surra      = Area{ID: "surra", Name: i18n.Text{En: "Surra", Ar: "السرة"}, Center: geo.Coordinates{Lat: 29.3000, Lng: 48.0000}}
	Fintas     = Area{ID: "fintas", Name: i18n.Text{En: "Fintas", Ar: "الفنطاس"}, Center: geo.Coordinates{Lat: 29.2500, Lng: 48.1000}}
	Messila    = Area{ID: "messila", Name: i18n.Text{En: "Messila", Ar: "المسيلة"}, Center: geo.Coordinates{Lat: 29.3200, Lng: 48.0400}}
	BneidAlGar = Area{ID: "bneidAlGar", Name: i18n.Text{En: "Bneid Al-Gar", Ar: "بنيد القار"}, Center: geo.Coordinates{Lat: 29.3600, Lng: 48.0200}}
	Yarmouk    = Area{ID: "yarmouk", Name: i18n.Text{En: "Yarmouk", Ar: "اليرموك"}, Center: geo.Coordinates{Lat: 29.3052, Lng: 48.0317}}
)

// Governorates in display order.
var Governorates = []Governorate{
	{ID: "capital", Name: i18n.Text{En: "Capital", Ar: "العاصمة"}, Areas: []Area{KuwaitCity, Dasma, BneidAlGar, Yarmouk}},
	{ID: "hawalli", Name: i18n.Text{En: "Hawalli", Ar: "حولي"}, Areas: []Area{HawalliA, Salmiya, Jabriya, Surra, Messila, Salwa}},
	{ID: "farwaniya", Name: i18n.Text{En: "Farwaniya", Ar: "الفروانية"}, Areas: []Area{}},
	{ID: "mubarakAlKabeer", Name: i18n.Text{En: "Mubarak Al-Kabeer", Ar: "مبارك الكبير"}, Areas: []Area{}},
	{ID: "ahmadi", Name: i18n.Text{En: "Ahmadi", Ar: "الأحمدي"}, Areas: []Area{Fintas}},
	{ID: "jahra", Name: i18n.Text{En: "Jahra", Ar: "الجهراء"}, Areas: []Area{}},
}
