package moviesapi

import (
	"errors"
	"fmt"
)

// ErrTransport wraps every failure where no response was received
// (dial errors, timeouts, cancelled contexts).
var ErrTransport = errors.New("movie api unreachable")

// StatusError is an application failure: the API answered, but not with the
// status the operation expects, or with a body that could not be decoded.
type StatusError struct {
	Op   string // operation name, e.g. "list movies"
	Code int    // HTTP status code received
	Msg  string // human-readable message
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Code)
}

// IsStatus reports whether err is a StatusError carrying code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
