// Package fertilizer holds the static bilingual fertilizer recommendations
// served alongside nutrient deficiency predictions.
package fertilizer

import (
	"golang.org/x/text/unicode/norm"
)

// Record is the recommendation for one diagnosis label.
type Record struct {
	Deficiency    string   `json:"deficiency"`
	DescriptionEN string   `json:"description_en"`
	DescriptionSI string   `json:"description_si"`
	Options       []Option `json:"fertilizer_options"`
	Timing        string   `json:"timing"`
	Precautions   string   `json:"precautions"`
}

type Option struct {
	Name          string `json:"name"`
	Concentration string `json:"concentration"`
	Application   string `json:"application"`
	DosageEN      string `json:"dosage_en"`
	DosageSI      string `json:"dosage_si,omitempty"`
	Notes         string `json:"notes"`
}

// Message is a user-facing notice in English and Sinhala.
type Message struct {
	EN string
	SI string
}

// NotCorn is shown when the classifier decides the upload is not a corn plant.
var NotCorn = Message{
	EN: "This image does not appear to be a corn plant. Please upload a corn leaf image.",
	SI: "මෙම රූපය බඩ ඉරු පැලක් නොවේ. කරුණාකර බඩ ඉරු කොළයක් අපලෝඩ් කරන්න.",
}

var unknown = Record{
	Deficiency:    "Unknown",
	DescriptionEN: "Unable to determine nutrient deficiency.",
	DescriptionSI: "පෝෂක ඌනතාවය තීරණය කළ නොහැකි.",
	Options:       []Option{},
	Timing:        "Consult local agricultural expert",
	Precautions:   "Contact agricultural extension service",
}

func init() {
	for label, rec := range records {
		records[label] = rec.normalized()
	}
	unknown = unknown.normalized()
	NotCorn = Message{EN: norm.NFC.String(NotCorn.EN), SI: norm.NFC.String(NotCorn.SI)}
}

// Lookup returns the recommendation for label, or the Unknown record when the
// label has none. It never fails and the result is a private copy.
func Lookup(label string) Record {
	if rec, ok := records[label]; ok {
		return rec.clone()
	}
	return unknown.clone()
}

// Known reports whether label has a dedicated recommendation.
func Known(label string) bool {
	_, ok := records[label]
	return ok
}

func (r Record) clone() Record {
	out := r
	out.Options = make([]Option, len(r.Options))
	copy(out.Options, r.Options)
	return out
}

// normalized returns r with every text field in Unicode NFC so that Sinhala
// strings compare and render the same regardless of how they were typed.
func (r Record) normalized() Record {
	nfc := norm.NFC.String
	out := Record{
		Deficiency:    nfc(r.Deficiency),
		DescriptionEN: nfc(r.DescriptionEN),
		DescriptionSI: nfc(r.DescriptionSI),
		Options:       make([]Option, len(r.Options)),
		Timing:        nfc(r.Timing),
		Precautions:   nfc(r.Precautions),
	}
	for i, o := range r.Options {
		out.Options[i] = Option{
			Name:          nfc(o.Name),
			Concentration: nfc(o.Concentration),
			Application:   nfc(o.Application),
			DosageEN:      nfc(o.DosageEN),
			DosageSI:      nfc(o.DosageSI),
			Notes:         nfc(o.Notes),
		}
	}
	return out
}
