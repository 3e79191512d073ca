package dto

// Wire shapes of the platform REST API consumed by the board.

type DriverDTO struct {
	Driver_id      string  `json:"driver_id"`
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Vehicle_type   string  `json:"vehicle_type"`
	Rating         float64 `json:"rating"`
	License_number string  `json:"license_number"`
}

type DriverPage struct {
	Drivers  []DriverDTO `json:"drivers"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Total    int         `json:"total"`
}

type PendingDriverDTO struct {
	Driver_id      string `json:"driver_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	License_number string `json:"license_number"`
	Vehicle_type   string `json:"vehicle_type"`
	Registered_at  string `json:"registered_at"`
}

type LiveRideDTO struct {
	Ride_id          string  `json:"ride_id"`
	Origin_latitude  float64 `json:"origin_latitude"`
	Origin_longitude float64 `json:"origin_longitude"`
	Status           string  `json:"status"`
	Eta_minutes      int     `json:"eta_minutes"`
	Rider_name       string  `json:"rider_name"`
	Driver_name      string  `json:"driver_name"`
}

type LiveRidesResponse struct {
	Rides []LiveRideDTO `json:"rides"`
	Limit int           `json:"limit"`
}

type AdminStats struct {
	Pending_drivers   int     `json:"pending_drivers"`
	Active_drivers    int     `json:"active_drivers"`
	Active_rides      int     `json:"active_rides"`
	Rides_today       int     `json:"rides_today"`
	Revenue_today     float64 `json:"revenue_today"`
	Cancellation_rate float64 `json:"cancellation_rate"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type ActionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ChangeRequestDTO struct {
	Request_id    string `json:"request_id"`
	Driver_id     string `json:"driver_id"`
	Vehicle_make  string `json:"vehicle_make"`
	Vehicle_model string `json:"vehicle_model"`
	Vehicle_plate string `json:"vehicle_plate"`
	Vehicle_year  int    `json:"vehicle_year"`
	Status        string `json:"status"`
	Created_at    string `json:"created_at"`
}

type FleetDTO struct {
	Fleet_id     string `json:"fleet_id"`
	Name         string `json:"name"`
	Driver_count int    `json:"driver_count"`
	Manager_name string `json:"manager_name"`
}

type FleetForm struct {
	Name         string `json:"name"`
	Manager_name string `json:"manager_name"`
}

type CorporateDTO struct {
	Corporate_id  string  `json:"corporate_id"`
	Company_name  string  `json:"company_name"`
	Contact_email string  `json:"contact_email"`
	Credit_limit  float64 `json:"credit_limit"`
	Active        bool    `json:"active"`
}

type CorporateForm struct {
	Company_name  string  `json:"company_name"`
	Contact_email string  `json:"contact_email"`
	Credit_limit  float64 `json:"credit_limit"`
}

type PromotionDTO struct {
	Promo_id         string  `json:"promo_id"`
	Code             string  `json:"code"`
	Discount_percent float64 `json:"discount_percent"`
	Max_uses         int     `json:"max_uses"`
	Expires_at       string  `json:"expires_at"`
	Active           bool    `json:"active"`
}

type PromotionForm struct {
	Code             string  `json:"code"`
	Discount_percent float64 `json:"discount_percent"`
	Max_uses         int     `json:"max_uses"`
	Expires_at       string  `json:"expires_at"`
}

type AdminDTO struct {
	User_id    string `json:"user_id"`
	Email      string `json:"email"`
	Granted_at string `json:"granted_at"`
}

type DriverImportRow struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	License_number string `json:"license_number"`
	Vehicle_type   string `json:"vehicle_type"`
	Vehicle_make   string `json:"vehicle_make"`
	Vehicle_model  string `json:"vehicle_model"`
	Vehicle_plate  string `json:"vehicle_plate"`
}

type DriverImportRequest struct {
	Drivers []DriverImportRow `json:"drivers"`
}

type DriverImportResponse struct {
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
	Message  string `json:"message"`
}
