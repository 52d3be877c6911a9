package api

import (
	"fmt"
	"regexp"
	"strings"
)

// Measurement value bounds. Readings outside these ranges are rejected
// before anything is persisted.
const (
	PHMin          = 0.0
	PHMax          = 14.0
	TemperatureMin = -10.0
	TemperatureMax = 50.0
)

// MinPasswordLength is enforced at registration, before hashing.
const MinPasswordLength = 8

// MaxPasswordLength matches bcrypt's 72-byte input limit; longer
// passwords would fail at hashing time rather than at validation.
const MaxPasswordLength = 72

// MaxFieldLength bounds email, name, and location inputs.
const MaxFieldLength = 255

// emailPattern is a pragmatic format check: one @, non-empty local part,
// and a dotted domain. Uniqueness and case sensitivity are the store's
// concern, not the format check's.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateRegister checks a registration request. All field failures are
// collected so the response echoes every problem at once.
func ValidateRegister(req *RegisterRequest) *APIError {
	fields := map[string][]string{}

	checkEmail(fields, req.Email)

	if req.Password == "" {
		fields["password"] = append(fields["password"], "password is required")
	} else if len(req.Password) < MinPasswordLength {
		fields["password"] = append(fields["password"],
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	} else if len(req.Password) > MaxPasswordLength {
		fields["password"] = append(fields["password"],
			fmt.Sprintf("password must be at most %d characters", MaxPasswordLength))
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// ValidateLogin checks shape only; credential verification happens later
// and fails with a 401, not a 400.
func ValidateLogin(req *LoginRequest) *APIError {
	fields := map[string][]string{}

	checkEmail(fields, req.Email)

	if req.Password == "" {
		fields["password"] = append(fields["password"], "password is required")
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// ValidateCreateSystem checks a system creation request.
func ValidateCreateSystem(req *CreateSystemRequest) *APIError {
	fields := map[string][]string{}

	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = append(fields["name"], "name is required")
	} else if len(req.Name) > MaxFieldLength {
		fields["name"] = append(fields["name"],
			fmt.Sprintf("name must be at most %d characters", MaxFieldLength))
	}

	if len(req.Location) > MaxFieldLength {
		fields["location"] = append(fields["location"],
			fmt.Sprintf("location must be at most %d characters", MaxFieldLength))
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// ValidateUpdateSystem checks a partial update. Absent fields (nil
// pointers) are not validated; a present name must still be non-empty.
func ValidateUpdateSystem(req *UpdateSystemRequest) *APIError {
	fields := map[string][]string{}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			fields["name"] = append(fields["name"], "name must not be empty")
		} else if len(*req.Name) > MaxFieldLength {
			fields["name"] = append(fields["name"],
				fmt.Sprintf("name must be at most %d characters", MaxFieldLength))
		}
	}

	if req.Location != nil && len(*req.Location) > MaxFieldLength {
		fields["location"] = append(fields["location"],
			fmt.Sprintf("location must be at most %d characters", MaxFieldLength))
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// ValidateCreateMeasurement checks presence and range of every reading.
func ValidateCreateMeasurement(req *CreateMeasurementRequest) *APIError {
	fields := map[string][]string{}

	switch {
	case req.PH == nil:
		fields["ph"] = append(fields["ph"], "ph is required")
	case *req.PH < PHMin || *req.PH > PHMax:
		fields["ph"] = append(fields["ph"],
			fmt.Sprintf("ph must be between %.1f and %.1f", PHMin, PHMax))
	}

	switch {
	case req.Temperature == nil:
		fields["temperature"] = append(fields["temperature"], "temperature is required")
	case *req.Temperature < TemperatureMin || *req.Temperature > TemperatureMax:
		fields["temperature"] = append(fields["temperature"],
			fmt.Sprintf("temperature must be between %.1f and %.1f", TemperatureMin, TemperatureMax))
	}

	switch {
	case req.TDS == nil:
		fields["tds"] = append(fields["tds"], "tds is required")
	case *req.TDS < 0:
		fields["tds"] = append(fields["tds"], "tds must not be negative")
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// checkEmail appends email format errors to fields.
func checkEmail(fields map[string][]string, email string) {
	switch {
	case email == "":
		fields["email"] = append(fields["email"], "email is required")
	case len(email) > MaxFieldLength:
		fields["email"] = append(fields["email"],
			fmt.Sprintf("email must be at most %d characters", MaxFieldLength))
	case !emailPattern.MatchString(email):
		fields["email"] = append(fields["email"], "email format is invalid")
	}
}
