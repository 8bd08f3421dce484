package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")
	testCases := []struct {
		name   string
		err    *AppError
		typ    ErrorType
		status int
	}{
		{"image load", NewImageLoadError("load", cause), ErrorTypeImageLoad, http.StatusUnprocessableEntity},
		{"image write", NewImageWriteError("write", cause), ErrorTypeImageWrite, http.StatusBadGateway},
		{"degenerate", NewDegenerateHistogramError("flat", cause), ErrorTypeDegenerateHistogram, http.StatusUnprocessableEntity},
		{"validation", NewValidationError("bad", cause), ErrorTypeValidation, http.StatusBadRequest},
		{"timeout", NewTimeoutError("slow", cause), ErrorTypeTimeout, http.StatusGatewayTimeout},
		{"internal", NewInternalError("oops", cause), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Type != tc.typ {
				t.Errorf("Expected type %s, got %s", tc.typ, tc.err.Type)
			}
			if tc.err.StatusCode != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, tc.err.StatusCode)
			}
			if !errors.Is(tc.err, cause) {
				t.Error("Expected cause to be wrapped")
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := NewImageLoadError("cannot decode", errors.New("unknown format"))
	expected := "image_load: cannot decode (caused by: unknown format)"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	if got := NewValidationError("empty", nil).Error(); got != "validation: empty" {
		t.Errorf("Expected message without cause, got %q", got)
	}
}

func TestIsType_WrappedError(t *testing.T) {
	err := fmt.Errorf("processing a.jpg: %w", NewImageWriteError("upload failed", nil))

	if !IsType(err, ErrorTypeImageWrite) {
		t.Error("Expected wrapped AppError to be detected")
	}
	if IsType(err, ErrorTypeImageLoad) {
		t.Error("Expected type mismatch to be false")
	}
	if IsType(errors.New("plain"), ErrorTypeInternal) {
		t.Error("Expected plain error not to match")
	}
}

func TestGetStatusCode(t *testing.T) {
	if code := GetStatusCode(fmt.Errorf("wrap: %w", NewTimeoutError("slow", nil))); code != http.StatusGatewayTimeout {
		t.Errorf("Expected 504, got %d", code)
	}
	if code := GetStatusCode(errors.New("plain")); code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for plain errors, got %d", code)
	}
}
