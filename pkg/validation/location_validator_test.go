package validation

import (
	"errors"
	"testing"

	apperrors "github.com/anime-shed/image-enhancer-go/internal/errors"
)

func expectMessage(t *testing.T, err error, message string) {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got: %T", err)
	}
	if appErr.Message != message {
		t.Errorf("Expected %q error, got: %s", message, appErr.Message)
	}
	if appErr.Type != apperrors.ErrorTypeValidation {
		t.Errorf("Expected validation error, got %s", appErr.Type)
	}
}

func TestNewLocationValidator(t *testing.T) {
	validator := NewLocationValidator()

	expectedSchemes := []string{"http", "https", "az"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Fatalf("Expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
	for i, scheme := range expectedSchemes {
		if validator.allowedSchemes[i] != scheme {
			t.Errorf("Expected scheme %s, got %s", scheme, validator.allowedSchemes[i])
		}
	}
}

func TestValidate_Kinds(t *testing.T) {
	validator := NewLocationValidator()

	testCases := []struct {
		location string
		kind     LocationKind
	}{
		{"input/1.jpg", LocalPath},
		{"/tmp/photo.png", LocalPath},
		{`C:\photos\a.bmp`, LocalPath},
		{"http://example.com/image.jpg", RemoteURL},
		{"https://192.168.1.1:8443/path/to/image.gif", RemoteURL},
		{"az://photos/2024/a.jpg", BlobRef},
	}

	for _, tc := range testCases {
		kind, err := validator.Validate(tc.location)
		if err != nil {
			t.Errorf("Expected %s to pass validation, got error: %v", tc.location, err)
			continue
		}
		if kind != tc.kind {
			t.Errorf("Expected kind %d for %s, got %d", tc.kind, tc.location, kind)
		}
	}
}

func TestValidate_Empty(t *testing.T) {
	validator := NewLocationValidator()

	for _, location := range []string{"", "   ", "\t\n"} {
		_, err := validator.Validate(location)
		expectMessage(t, err, "Location cannot be empty")
	}
}

func TestValidate_Rejections(t *testing.T) {
	validator := NewLocationValidator()

	testCases := []struct {
		location string
		message  string
	}{
		{"ftp://example.com/image.jpg", "Location scheme not allowed"},
		{"file://local/path/image.jpg", "Location scheme not allowed"},
		{"http://", "URL must have a valid host"},
		{"https:///path", "URL must have a valid host"},
		{"az://photos", "Blob location must name a container and a blob"},
		{"az:///a.jpg", "Blob location must name a container and a blob"},
		{"input/\x00.jpg", "Path contains a NUL byte"},
	}

	for _, tc := range testCases {
		t.Run(tc.location, func(t *testing.T) {
			_, err := validator.Validate(tc.location)
			expectMessage(t, err, tc.message)
		})
	}
}

func TestValidate_RestrictedHosts(t *testing.T) {
	validator := NewLocationValidatorWithOptions([]string{"http", "https"}, []string{"example.com", "trusted.com"})

	for _, location := range []string{"http://example.com/image.jpg", "https://trusted.com:443/image.png", "local.jpg"} {
		if _, err := validator.Validate(location); err != nil {
			t.Errorf("Expected %s to pass validation, got error: %v", location, err)
		}
	}

	_, err := validator.Validate("http://malicious.com/image.jpg")
	expectMessage(t, err, "URL host not allowed")

	_, err = validator.Validate("az://photos/a.jpg")
	expectMessage(t, err, "Location scheme not allowed")
}

func TestValidate_LocalPathsDisabled(t *testing.T) {
	validator := NewLocationValidator().WithLocalPaths(false)

	for _, location := range []string{"input/1.jpg", "/etc/passwd", `C:\photos\a.bmp`} {
		kind, err := validator.Validate(location)
		if kind != LocalPath {
			t.Errorf("Expected %s to be classified as a local path, got %d", location, kind)
		}
		expectMessage(t, err, "Local paths are not allowed")
	}

	if kind, err := validator.Validate("https://example.com/a.jpg"); err != nil || kind != RemoteURL {
		t.Errorf("Expected remote URL to pass, got %d %v", kind, err)
	}
	if _, err := NewLocationValidator().Validate("input/1.jpg"); err != nil {
		t.Errorf("Expected the original validator to keep accepting local paths, got %v", err)
	}
}
