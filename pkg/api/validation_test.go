package api

import (
	"strings"
	"testing"
)

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name      string
		req       RegisterRequest
		wantField string // empty means valid
	}{
		{
			name: "valid",
			req:  RegisterRequest{Email: "grower@example.com", Password: "longenough"},
		},
		{
			name:      "missing email",
			req:       RegisterRequest{Password: "longenough"},
			wantField: "email",
		},
		{
			name:      "malformed email",
			req:       RegisterRequest{Email: "not-an-email", Password: "longenough"},
			wantField: "email",
		},
		{
			name:      "email without domain dot",
			req:       RegisterRequest{Email: "user@localhost", Password: "longenough"},
			wantField: "email",
		},
		{
			name:      "missing password",
			req:       RegisterRequest{Email: "grower@example.com"},
			wantField: "password",
		},
		{
			name:      "short password",
			req:       RegisterRequest{Email: "grower@example.com", Password: "seven77"},
			wantField: "password",
		},
		{
			name: "password at bcrypt limit",
			req:  RegisterRequest{Email: "grower@example.com", Password: strings.Repeat("x", MaxPasswordLength)},
		},
		{
			name:      "password over bcrypt limit",
			req:       RegisterRequest{Email: "grower@example.com", Password: strings.Repeat("x", MaxPasswordLength+1)},
			wantField: "password",
		},
		{
			name:      "overlong password",
			req:       RegisterRequest{Email: "grower@example.com", Password: strings.Repeat("x", 300)},
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateRegister() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateRegister() = nil, want error on field %q", tt.wantField)
			}
			if err.Type != ErrorTypeInvalidRequest {
				t.Errorf("error type = %q, want %q", err.Type, ErrorTypeInvalidRequest)
			}
			if _, ok := err.Fields[tt.wantField]; !ok {
				t.Errorf("error fields = %v, want entry for %q", err.Fields, tt.wantField)
			}
		})
	}
}

func TestValidateRegisterCollectsAllFields(t *testing.T) {
	err := ValidateRegister(&RegisterRequest{Email: "nope", Password: "short"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Fields) != 2 {
		t.Errorf("fields = %v, want both email and password entries", err.Fields)
	}
}

func TestValidateCreateMeasurement(t *testing.T) {
	ph := func(v float64) *float64 { return &v }
	temp := ph
	tds := func(v int) *int { return &v }

	tests := []struct {
		name      string
		req       CreateMeasurementRequest
		wantField string
	}{
		{
			name: "valid",
			req:  CreateMeasurementRequest{PH: ph(6.5), Temperature: temp(22.0), TDS: tds(800)},
		},
		{
			name: "boundaries inclusive",
			req:  CreateMeasurementRequest{PH: ph(14.0), Temperature: temp(-10.0), TDS: tds(0)},
		},
		{
			name:      "ph too high",
			req:       CreateMeasurementRequest{PH: ph(14.1), Temperature: temp(22.0), TDS: tds(800)},
			wantField: "ph",
		},
		{
			name:      "ph too low",
			req:       CreateMeasurementRequest{PH: ph(-0.1), Temperature: temp(22.0), TDS: tds(800)},
			wantField: "ph",
		},
		{
			name:      "ph missing",
			req:       CreateMeasurementRequest{Temperature: temp(22.0), TDS: tds(800)},
			wantField: "ph",
		},
		{
			name:      "temperature too cold",
			req:       CreateMeasurementRequest{PH: ph(6.5), Temperature: temp(-10.5), TDS: tds(800)},
			wantField: "temperature",
		},
		{
			name:      "temperature too hot",
			req:       CreateMeasurementRequest{PH: ph(6.5), Temperature: temp(50.5), TDS: tds(800)},
			wantField: "temperature",
		},
		{
			name:      "negative tds",
			req:       CreateMeasurementRequest{PH: ph(6.5), Temperature: temp(22.0), TDS: tds(-1)},
			wantField: "tds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateMeasurement(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateCreateMeasurement() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateCreateMeasurement() = nil, want error on %q", tt.wantField)
			}
			if _, ok := err.Fields[tt.wantField]; !ok {
				t.Errorf("error fields = %v, want entry for %q", err.Fields, tt.wantField)
			}
		})
	}
}

func TestValidateCreateSystem(t *testing.T) {
	if err := ValidateCreateSystem(&CreateSystemRequest{Name: "Greenhouse A"}); err != nil {
		t.Errorf("name-only request should be valid, got %v", err)
	}
	if err := ValidateCreateSystem(&CreateSystemRequest{Location: "Farm #1"}); err == nil {
		t.Error("missing name should fail")
	}
	if err := ValidateCreateSystem(&CreateSystemRequest{Name: "   "}); err == nil {
		t.Error("blank name should fail")
	}
}

func TestValidateUpdateSystem(t *testing.T) {
	empty := ""
	name := "Updated"

	if err := ValidateUpdateSystem(&UpdateSystemRequest{}); err != nil {
		t.Errorf("empty partial update should be valid, got %v", err)
	}
	if err := ValidateUpdateSystem(&UpdateSystemRequest{Name: &name}); err != nil {
		t.Errorf("name-only update should be valid, got %v", err)
	}
	if err := ValidateUpdateSystem(&UpdateSystemRequest{Name: &empty}); err == nil {
		t.Error("explicit empty name should fail")
	}
}
