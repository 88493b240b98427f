package validation

import (
	"errors"
	"testing"

	apperrors "github.com/anime-shed/moon-schumann-dashboard/internal/errors"
)

func TestNewURLValidator(t *testing.T) {
	validator := NewURLValidator()
	if validator == nil {
		t.Fatal("Expected non-nil URL validator")
	}

	expectedSchemes := []string{"http", "https"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Errorf("Expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
	if len(validator.allowedHosts) != 0 {
		t.Errorf("Expected no host restrictions, got %v", validator.allowedHosts)
	}
}

func TestValidateSourceURL_ValidURLs(t *testing.T) {
	validator := NewURLValidator()

	validURLs := []string{
		"https://images.weserv.nl/?url=sosrff.tsu.ru/new/shm.jpg",
		"https://www.timeanddate.com/moon/phases/canada/",
		"http://127.0.0.1:8081/shm.jpg",
		"HTTPS://example.com/image.jpg",
	}

	for _, u := range validURLs {
		if err := validator.ValidateSourceURL(u); err != nil {
			t.Errorf("Expected valid URL %s to pass validation, got error: %v", u, err)
		}
	}
}

func TestValidateSourceURL_InvalidURLs(t *testing.T) {
	validator := NewURLValidator()

	tests := []struct {
		url     string
		message string
	}{
		{"", "URL cannot be empty"},
		{"   ", "URL cannot be empty"},
		{"ftp://example.com/shm.jpg", "URL scheme not allowed"},
		{"https://", "URL must have a valid host"},
		{"://bad", "Invalid URL format"},
	}

	for _, tt := range tests {
		err := validator.ValidateSourceURL(tt.url)
		if err == nil {
			t.Errorf("Expected URL %q to fail validation", tt.url)
			continue
		}

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			t.Errorf("Expected AppError, got: %T", err)
			continue
		}
		if appErr.Message != tt.message {
			t.Errorf("URL %q: expected %q, got %q", tt.url, tt.message, appErr.Message)
		}
		if appErr.Type != apperrors.ErrorTypeValidation {
			t.Errorf("Expected validation error type, got %s", appErr.Type)
		}
	}
}

func TestValidateSourceURL_HostRestrictions(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"https"}, []string{"www.timeanddate.com"})

	if err := validator.ValidateSourceURL("https://www.timeanddate.com:443/moon/phases/canada/"); err != nil {
		t.Errorf("Expected allowed host to pass, got %v", err)
	}
	if err := validator.ValidateSourceURL("https://evil.example.com/"); err == nil {
		t.Error("Expected disallowed host to fail")
	}
	if err := validator.ValidateSourceURL("http://www.timeanddate.com/"); err == nil {
		t.Error("Expected http to fail when only https is allowed")
	}
}
