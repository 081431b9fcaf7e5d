package yield

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// TopFeatures is how many contributions a prediction reports.
const TopFeatures = 5

type Contribution struct {
	RawName     string  `json:"raw_name"`
	DisplayName string  `json:"display_name"`
	SHAPValue   float64 `json:"shap_value"`
}

// BaseLabels names the numeric input columns.
var BaseLabels = map[string]string{
	"farm_size_acres":                  "Farm size (acres)",
	"farmer_experience_years":          "Farmer experience (years)",
	"access_to_credit":                 "Access to credit",
	"access_to_extension_services":     "Access to extension services",
	"mechanization":                    "Use of machinery",
	"market_distance_km":               "Distance to market (km)",
	"soil_ph":                          "Soil pH",
	"organic_matter_pct":               "Organic matter (%)",
	"nitrogen_index":                   "Nitrogen level (index)",
	"phosphorus_index":                 "Phosphorus level (index)",
	"potassium_index":                  "Potassium level (index)",
	"seasonal_rainfall_mm":             "Seasonal rainfall (mm)",
	"avg_temp_c":                       "Average temperature (°C)",
	"fertilizer_kg_per_acre":           "Fertilizer (kg/acre)",
	"planting_density_plants_per_acre": "Planting density (plants/acre)",
	"previous_yield_kg_per_acre":       "Previous yield (kg/acre)",
	"pest_disease_incidence":           "Pest/disease level",
}

// CatLabels prefixes the one-hot outputs of the categorical columns.
var CatLabels = map[string]string{
	"district":             "District",
	"agro_ecological_zone": "Agro-ecological zone",
	"soil_type":            "Soil type",
	"variety":              "Variety",
	"irrigation_type":      "Irrigation type",
}

// PrettyFeatureName guesses a readable name for a raw transformed feature
// name such as "district_Kurunegala" or "soil_ph".
func PrettyFeatureName(raw string) string {
	if label, ok := BaseLabels[raw]; ok {
		return label
	}
	if prefix, rest, ok := strings.Cut(raw, "_"); ok {
		if label, ok := CatLabels[prefix]; ok {
			return label + ": " + strings.ReplaceAll(rest, "_", " ")
		}
	}
	return capitalize(strings.ReplaceAll(raw, "_", " "))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + strings.ToLower(s[size:])
}

// featureNames lists the transformed columns with their display names.
// Overrides win, then the known column or (column, category) pair, then
// PrettyFeatureName.
func featureNames(num NumericSpec, cat CategoricalSpec, overrides map[string]string) []Feature {
	var out []Feature
	add := func(raw, display string) {
		if o, ok := overrides[raw]; ok && o != "" {
			display = o
		}
		out = append(out, Feature{Raw: raw, Display: display})
	}

	for _, col := range num.Columns {
		display, ok := BaseLabels[col]
		if !ok {
			display = PrettyFeatureName(col)
		}
		add(col, display)
	}
	for i, col := range cat.Columns {
		prefix, ok := CatLabels[col]
		if !ok {
			prefix = PrettyFeatureName(col)
		}
		for _, c := range cat.Categories[i] {
			add(col+"_"+c, prefix+": "+strings.ReplaceAll(c, "_", " "))
		}
	}
	return out
}

// topContributions ranks phi by absolute value, largest first. Ties keep
// feature order.
func (p *Pipeline) topContributions(phi []float64, n int) []Contribution {
	idx := make([]int, len(phi))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(phi[idx[a]]) > math.Abs(phi[idx[b]])
	})
	if n > len(idx) {
		n = len(idx)
	}

	out := make([]Contribution, n)
	for i, k := range idx[:n] {
		out[i] = Contribution{
			RawName:     p.features[k].Raw,
			DisplayName: p.features[k].Display,
			SHAPValue:   phi[k],
		}
	}
	return out
}
