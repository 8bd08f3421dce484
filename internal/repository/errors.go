package repository

import "errors"

var (
	// ErrInvalidLocation indicates a location that failed validation
	ErrInvalidLocation = errors.New("invalid image location")

	// ErrBlobStorageUnavailable indicates an az:// location without configured Azure credentials
	ErrBlobStorageUnavailable = errors.New("blob storage not configured")
)
