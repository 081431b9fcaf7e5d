package yield

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidRequest = errors.New("invalid yield request")

// Request carries the fields a farmer fills in. Numbers are pointers so a
// missing field can be told apart from zero.
type Request struct {
	District               string   `json:"district"`
	FarmSizeAcres          *float64 `json:"farm_size_acres"`
	Variety                string   `json:"variety"`
	SeasonalRainfallMM     *float64 `json:"seasonal_rainfall_mm"`
	FertilizerKgPerAcre    *float64 `json:"fertilizer_kg_per_acre"`
	PreviousYieldKgPerAcre *float64 `json:"previous_yield_kg_per_acre"`
}

// Validate reports every missing or non-finite field at once.
func (r Request) Validate() error {
	var problems []string
	if strings.TrimSpace(r.District) == "" {
		problems = append(problems, "district is required")
	}
	if strings.TrimSpace(r.Variety) == "" {
		problems = append(problems, "variety is required")
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"farm_size_acres", r.FarmSizeAcres},
		{"seasonal_rainfall_mm", r.SeasonalRainfallMM},
		{"fertilizer_kg_per_acre", r.FertilizerKgPerAcre},
		{"previous_yield_kg_per_acre", r.PreviousYieldKgPerAcre},
	} {
		switch {
		case f.v == nil:
			problems = append(problems, f.name+" is required")
		case math.IsNaN(*f.v) || math.IsInf(*f.v, 0):
			problems = append(problems, f.name+" must be a finite number")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
	}
	return nil
}

// Row is one complete feature row in the training-time schema.
type Row struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Columns is the training-time column order.
var Columns = []string{
	"farm_id",
	"district",
	"agro_ecological_zone",
	"soil_type",
	"farm_size_acres",
	"farmer_experience_years",
	"access_to_credit",
	"access_to_extension_services",
	"mechanization",
	"market_distance_km",
	"variety",
	"soil_ph",
	"organic_matter_pct",
	"nitrogen_index",
	"phosphorus_index",
	"potassium_index",
	"seasonal_rainfall_mm",
	"avg_temp_c",
	"fertilizer_kg_per_acre",
	"planting_density_plants_per_acre",
	"irrigation_type",
	"previous_yield_kg_per_acre",
	"pest_disease_incidence",
}

// Fixed values for the columns the form does not ask for.
var (
	numericDefaults = map[string]float64{
		"farm_id":                          1,
		"farmer_experience_years":          10,
		"access_to_credit":                 1,
		"access_to_extension_services":     1,
		"mechanization":                    0,
		"market_distance_km":               10.0,
		"soil_ph":                          6.4,
		"organic_matter_pct":               2.5,
		"nitrogen_index":                   55.0,
		"phosphorus_index":                 50.0,
		"potassium_index":                  52.0,
		"avg_temp_c":                       27.0,
		"planting_density_plants_per_acre": 18000,
		"pest_disease_incidence":           1,
	}
	categoricalDefaults = map[string]string{
		"agro_ecological_zone": "IL2",
		"soil_type":            "Loam",
		"irrigation_type":      "Rainfed",
	}
)

// BuildRow merges the request with the fixed defaults. Missing numbers in
// req become zero; call Validate first for user input.
func BuildRow(req Request) Row {
	row := Row{
		Numeric:     make(map[string]float64, len(numericDefaults)+4),
		Categorical: make(map[string]string, len(categoricalDefaults)+2),
	}
	for k, v := range numericDefaults {
		row.Numeric[k] = v
	}
	for k, v := range categoricalDefaults {
		row.Categorical[k] = v
	}

	row.Categorical["district"] = strings.TrimSpace(req.District)
	row.Categorical["variety"] = strings.TrimSpace(req.Variety)
	row.Numeric["farm_size_acres"] = deref(req.FarmSizeAcres)
	row.Numeric["seasonal_rainfall_mm"] = deref(req.SeasonalRainfallMM)
	row.Numeric["fertilizer_kg_per_acre"] = deref(req.FertilizerKgPerAcre)
	row.Numeric["previous_yield_kg_per_acre"] = deref(req.PreviousYieldKgPerAcre)
	return row
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
