package session

import "fmt"

// ValidationError reports bad local input. It is raised before any network
// call is made and never reflects a service response.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ErrBusy is returned when an ingestion or search is requested while another
// is still in flight. The later call changes no state.
var ErrBusy = &ValidationError{Reason: "another operation is already in progress"}

// ServiceUnavailableError reports that the parsing capability is missing on
// the server (HTTP 501). It implies a structural fix rather than a retry, so
// the presentation layer shows it longer than other failures.
type ServiceUnavailableError struct {
	Detail string
}

func (e *ServiceUnavailableError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "parsing capability unavailable on the server"
}

// TransportError reports any other network or service failure.
type TransportError struct {
	Status int    // HTTP status, 0 when the request never completed
	Detail string // server-provided message, if any
	Err    error  // underlying error, if any
}

func (e *TransportError) Error() string {
	switch {
	case e.Detail != "" && e.Status != 0:
		return fmt.Sprintf("service error (%d): %s", e.Status, e.Detail)
	case e.Detail != "":
		return e.Detail
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "request failed"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
