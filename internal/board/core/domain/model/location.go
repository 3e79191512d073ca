package model

import "time"

// Location is the last observed position of a tracked entity. Ephemeral,
// held in memory only for the lifetime of a board session.
type Location struct {
	Latitude   float64
	Longitude  float64
	ObservedAt time.Time
}
