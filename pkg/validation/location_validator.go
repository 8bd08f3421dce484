package validation

import (
	"net/url"
	"strings"

	apperrors "github.com/anime-shed/image-enhancer-go/internal/errors"
)

// LocationKind tells which backend serves a location
type LocationKind int

const (
	// LocalPath is a filesystem path
	LocalPath LocationKind = iota
	// RemoteURL is an http or https URL
	RemoteURL
	// BlobRef is an az://container/blob reference
	BlobRef
)

// LocationValidator handles input location validation logic
type LocationValidator struct {
	allowedSchemes []string
	allowedHosts   []string
	allowLocal     bool
}

// NewLocationValidator creates a validator accepting local paths, http(s) and az:// locations
func NewLocationValidator() *LocationValidator {
	return &LocationValidator{
		allowedSchemes: []string{"http", "https", "az"},
		allowedHosts:   []string{}, // empty means all hosts allowed
		allowLocal:     true,
	}
}

// NewLocationValidatorWithOptions creates a validator with custom schemes and
// remote hosts. Host restrictions apply to http(s) only.
func NewLocationValidatorWithOptions(schemes []string, hosts []string) *LocationValidator {
	return &LocationValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
		allowLocal:     true,
	}
}

// WithLocalPaths returns a copy of the validator that accepts or rejects
// filesystem paths. Servers reachable by untrusted clients turn them off.
func (v *LocationValidator) WithLocalPaths(allow bool) *LocationValidator {
	clone := *v
	clone.allowLocal = allow
	return &clone
}

// Validate checks a location and reports its kind
func (v *LocationValidator) Validate(location string) (LocationKind, error) {
	if strings.TrimSpace(location) == "" {
		return LocalPath, apperrors.NewValidationError("Location cannot be empty", nil)
	}

	if !strings.Contains(location, "://") {
		if !v.allowLocal {
			return LocalPath, apperrors.NewValidationError("Local paths are not allowed", nil)
		}
		if strings.ContainsRune(location, 0) {
			return LocalPath, apperrors.NewValidationError("Path contains a NUL byte", nil)
		}
		return LocalPath, nil
	}

	parsedURL, err := url.Parse(location)
	if err != nil {
		return RemoteURL, apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return RemoteURL, apperrors.NewValidationError("Location scheme not allowed", nil)
	}

	if parsedURL.Scheme == "az" {
		if parsedURL.Host == "" || strings.Trim(parsedURL.Path, "/") == "" {
			return BlobRef, apperrors.NewValidationError("Blob location must name a container and a blob", nil)
		}
		return BlobRef, nil
	}

	if parsedURL.Host == "" {
		return RemoteURL, apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !v.isHostAllowed(parsedURL.Hostname()) {
		return RemoteURL, apperrors.NewValidationError("URL host not allowed", nil)
	}

	return RemoteURL, nil
}

// isSchemeAllowed checks if the URL scheme is in the allowed list
func (v *LocationValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// isHostAllowed returns true if no host restrictions are set
func (v *LocationValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if host == allowed {
			return true
		}
	}
	return false
}
