package api

import (
	"errors"
	"fmt"
	"net/http"
)

// MsgNetworkFailure is reported when no response was received at all.
const MsgNetworkFailure = "network error, check your connection"

// Error is the failure shape produced by the transport client. A zero
// Status means no HTTP response was received (connectivity failure).
type Error struct {
	Status  int
	Detail  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	case e.Status > 0:
		return fmt.Sprintf("request failed with status %d", e.Status)
	default:
		return "request failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsAuth reports whether the failure was an authentication rejection.
func (e *Error) IsAuth() bool { return e.Status == http.StatusUnauthorized }

// ErrorMessage extracts a user-facing message from a transport failure,
// preferring the server's detail, then its message, then the network-failure
// string for connectivity errors, then the given fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Status == 0 {
			return MsgNetworkFailure
		}
	}
	return fallback
}

// IsAuthError reports whether err is a 401 transport failure.
func IsAuthError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsAuth()
}
