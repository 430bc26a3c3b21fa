package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned by the HTTP surface.
const (
	// Command errors (CMD)
	ErrInvalidCommand = "CMD_001"

	// Download errors (DL)
	ErrInvalidToken = "DL_001"
	ErrFileNotFound = "DL_002"

	// Filesystem errors (FS)
	ErrFilesystem = "FS_001"

	// Server errors (SRV)
	ErrInternalServer  = "SRV_001"
	ErrExternalService = "SRV_002"
)

var httpStatusMap = map[string]int{
	ErrInvalidCommand:  http.StatusBadRequest,
	ErrInvalidToken:    http.StatusUnauthorized,
	ErrFileNotFound:    http.StatusNotFound,
	ErrFilesystem:      http.StatusInternalServerError,
	ErrInternalServer:  http.StatusInternalServerError,
	ErrExternalService: http.StatusBadGateway,
}

// APIError is the standardized error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standardized error to the HTTP response.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error in an APIError.
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
