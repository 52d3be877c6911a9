package api

import "time"

// User is a registered account. The password hash never serializes.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	PasswordHash string    `json:"-"`
}

// System is a hydroponic installation owned by exactly one user.
type System struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// SystemDetail is the retrieve-by-id shape: the system plus its ten most
// recent measurements, newest first.
type SystemDetail struct {
	System
	LatestMeasurements []Measurement `json:"latest_measurements"`
}

// Measurement is a single sensor reading attached to a system. The
// timestamp is assigned by the server at creation time.
type Measurement struct {
	ID          int64     `json:"id"`
	SystemID    int64     `json:"system"`
	Timestamp   time.Time `json:"timestamp"`
	PH          float64   `json:"ph"`
	Temperature float64   `json:"temperature"`
	TDS         int       `json:"tds"`
}

// RegisterRequest is the body of POST /register/.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the bearer token issued on successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse is a generic confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateSystemRequest is the body of POST /systems/.
type CreateSystemRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// UpdateSystemRequest is the body of PUT /systems/{id}/. Nil pointers mean
// the field was absent and keeps its stored value.
type UpdateSystemRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

// CreateMeasurementRequest is the body of POST /systems/{id}/measurements/.
// Pointer fields distinguish "absent" from zero values; a client-supplied
// timestamp is accepted syntactically but ignored (the server assigns it).
type CreateMeasurementRequest struct {
	PH          *float64 `json:"ph"`
	Temperature *float64 `json:"temperature"`
	TDS         *int     `json:"tds"`
	Timestamp   string   `json:"timestamp"`
}

// Page is the paginated list envelope. Next and Previous are either null
// or links to the adjacent page preserving the current filter and sort
// state.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
