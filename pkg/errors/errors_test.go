package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}
	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFetch, cause, "funding links for serde")

	if err.Code != ErrCodeFetch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFetch)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := err.Error(); got != "FETCH_FAILED: funding links for serde: underlying error" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeDataShape, "test"), ErrCodeDataShape, true},
		{"different code", New(ErrCodeDataShape, "test"), ErrCodeFetch, false},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrCodeConfig, "x")), ErrCodeConfig, true},
		{"plain error", errors.New("plain"), ErrCodeConfig, false},
		{"nil error", nil, ErrCodeConfig, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New(ErrCodeInvalidSort, "unknown sort field %q", "stars"))
	if got := GetCode(err); got != ErrCodeInvalidSort {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInvalidSort)
	}
	if got := UserMessage(err); got != `unknown sort field "stars"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("boom")); got != "boom" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
	if GetCode(errors.New("boom")) != "" {
		t.Error("GetCode(plain) should be empty")
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeConfig, "no token"), true},
		{New(ErrCodeInvalidSort, "bad"), true},
		{New(ErrCodeFetch, "404"), false},
		{New(ErrCodeDataShape, "no owner"), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := IsFatal(tt.err); got != tt.want {
			t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestValidateCrateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"serde", false},
		{"serde_json", false},
		{"tokio-util", false},
		{"", true},
		{"1password", true},
		{"../etc", true},
		{"a b", true},
		{"name\x00", true},
	}
	for _, tt := range tests {
		err := ValidateCrateName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCrateName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidPackage) {
			t.Errorf("ValidateCrateName(%q) code = %v", tt.name, GetCode(err))
		}
	}
}

func TestValidateManifestPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"Cargo.toml", false},
		{"./crates/core/Cargo.toml", false},
		{"cargo.toml", false},
		{"", true},
		{"package.json", true},
	}
	for _, tt := range tests {
		if err := ValidateManifestPath(tt.path); (err != nil) != tt.wantErr {
			t.Errorf("ValidateManifestPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}
