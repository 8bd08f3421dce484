package models

// EnhanceRequest asks the service to enhance the image at Location, which may
// be a local path, an http(s) URL or an az://container/blob reference
type EnhanceRequest struct {
	Location string `json:"location" binding:"required"`
}

// BatchEnhanceRequest enhances several images in one call
type BatchEnhanceRequest struct {
	Locations []string `json:"locations" binding:"required,min=1"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
