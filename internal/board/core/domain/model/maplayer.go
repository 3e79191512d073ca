package model

// HeatMode selects what the heat layer visualizes.
type HeatMode string

const (
	HeatModeSupply HeatMode = "supply"
	HeatModeDemand HeatMode = "demand"
)

// Marker is one renderable point on the live map.
type Marker struct {
	Id        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MarkerSets holds the two disjoint driver layers.
type MarkerSets struct {
	Available []Marker `json:"available"`
	Engaged   []Marker `json:"engaged"`
}

// HeatPoint is one weighted point of the heat cloud.
type HeatPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weight    float64 `json:"weight"`
}
