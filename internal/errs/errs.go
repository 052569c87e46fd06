package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrForbidden       = errors.New("role is not allowed here")
	ErrEmptyComment    = errors.New("comment is empty")
	ErrMissingUserName = errors.New("session has no user name")
	ErrNotDeletable    = errors.New("only pending tickets can be deleted")
	ErrNotConfirmed    = errors.New("action not confirmed")
	ErrTerminalStatus  = errors.New("ticket status is final")
	ErrDeviceRequired  = errors.New("select a device first")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrNotLoaded       = errors.New("nothing loaded yet")
)

// RequestError — неуспешный вызов API. Status == 0 означает сбой транспорта.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
