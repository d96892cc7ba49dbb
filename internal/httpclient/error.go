package httpclient

import (
	"fmt"

	"github.com/cockroachdb/errors"

	ierr "github.com/flexprice/invoicer/internal/errors"
)

// StatusError is a response with a 4xx or 5xx status. It is marked
// ErrHTTPClient, so callers that only care about the class use
// ierr.IsHTTPClient.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	// Body is the response, truncated to the client body limit
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// Is lets errors.Is match the ErrHTTPClient sentinel
func (e *StatusError) Is(target error) bool {
	return target == ierr.ErrHTTPClient
}

// NewStatusError builds the error Send returns for a failed status
func NewStatusError(req *Request, statusCode int, body []byte) error {
	return &StatusError{
		Method:     req.Method,
		URL:        req.URL,
		StatusCode: statusCode,
		Body:       body,
	}
}

// AsStatusError returns the status error carried by err, if any
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
