package dashboard

import (
	"errors"
	"fmt"
)

// Backend error codes that map to user-facing status text.
const (
	CodeNotConnected = "not_connected"
	CodeNeedsReauth  = "needs_reauth"
	CodeNoDevice     = "no_device"
)

// Other codes the integrations report.
const (
	CodeNotConfigured = "not_configured"
	CodeNoDevices     = "no_devices"
)

// APIError is a non-2xx response, or a 2xx response whose body carried an
// error code.
type APIError struct {
	Path    string
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Code extracts the backend error code from err, if any.
func Code(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// StatusText maps an error to a short status line for the display. Nil
// errors produce an empty string.
func StatusText(err error) string {
	if err == nil {
		return ""
	}
	switch Code(err) {
	case CodeNotConnected:
		return "Spotify not connected"
	case CodeNeedsReauth:
		return "Spotify needs re-authorization"
	case CodeNoDevice:
		return "No active Spotify device"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Unavailable"
}
