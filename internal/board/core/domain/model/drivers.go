package model

// Driver statuses as reported by the platform API.
const (
	StatusOffline = "offline"
	StatusOnline  = "online"
	StatusBusy    = "busy"
	StatusOnTrip  = "on_trip"
)

// DriverSnapshot is one row of the periodically polled driver list. The map
// layer only needs id and status; the rest feeds the directory views.
type DriverSnapshot struct {
	Id            string
	Name          string
	Status        string
	VehicleType   string
	Rating        float64
	LicenseNumber string
}

// Available reports whether the driver counts as idle supply.
func (d DriverSnapshot) Available() bool {
	return d.Status == StatusOnline
}

// Engaged reports whether the driver is actively servicing demand.
func (d DriverSnapshot) Engaged() bool {
	return d.Status == StatusBusy || d.Status == StatusOnTrip
}

// PendingDriver is a registration awaiting review.
type PendingDriver struct {
	Id            string
	Name          string
	Email         string
	Phone         string
	LicenseNumber string
	VehicleType   string
	RegisteredAt  string
}

// VehicleChangeRequest is a driver-submitted vehicle swap awaiting review.
type VehicleChangeRequest struct {
	Id        string
	DriverId  string
	Make      string
	Model     string
	Plate     string
	Year      int
	Status    string
	CreatedAt string
}
