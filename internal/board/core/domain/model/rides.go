package model

// LiveRide is one row of the live-rides poll, used by the demand heat mode.
type LiveRide struct {
	Id         string
	OriginLat  float64
	OriginLng  float64
	Status     string
	EtaMinutes int
	RiderName  string
	DriverName string
}

// HasOrigin reports whether the ride carries a usable origin coordinate.
// Rides ingested before geocoding completes arrive with zeroed origins.
func (r LiveRide) HasOrigin() bool {
	return r.OriginLat != 0 || r.OriginLng != 0
}
