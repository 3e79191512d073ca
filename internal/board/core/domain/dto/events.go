package dto

import "encoding/json"

// Push event names broadcast on the admin room.
const (
	EventDriverRegistered      = "DriverRegistered"
	EventDriverApproved        = "DriverApproved"
	EventDriverRejected        = "DriverRejected"
	EventDriverStatusChanged   = "DriverStatusChanged"
	EventDriverLocationUpdated = "DriverLocationUpdated"
)

// Client-to-server message types on the push channel.
const (
	MessageTypeAuth      = "auth"
	MessageTypeJoinRoom  = "join_room"
	MessageTypeLeaveRoom = "leave_room"
)

// Envelope is the frame every push event arrives in. Data stays raw until a
// subscriber decodes it.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// AuthMessage is sent once right after connect.
type AuthMessage struct {
	Type string `json:"type"`
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// RoomMessage joins or leaves a named room.
type RoomMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// DriverEventPayload is the data of the registration/approval/status events.
type DriverEventPayload struct {
	Driver_id   string `json:"driver_id"`
	Driver_name string `json:"driver_name"`
	Status      string `json:"status"`
}

// LocationEventPayload is the data of DriverLocationUpdated.
type LocationEventPayload struct {
	Driver_id string  `json:"driver_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
