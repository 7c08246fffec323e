package confluence

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StatusError is returned whenever Confluence answers with a non-2xx status.  Use errors.As to get
// at the status code.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string

	// Confluence usually explains itself in a JSON body; this is its 'message' field, or the raw
	// (truncated) body if it didn't.
	Message string
}

func (e *StatusError) Error() string {
	detail := e.Status
	if e.Message != "" {
		detail = fmt.Sprintf("%s: %s", e.Status, e.Message)
	}

	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "confluence: authentication failed"
	case http.StatusForbidden:
		return fmt.Sprintf("confluence: permission denied: %s", detail)
	case http.StatusNotFound:
		return fmt.Sprintf("confluence: not found: %s", e.URL)
	case http.StatusServiceUnavailable:
		return fmt.Sprintf("confluence: service is not available: %s", detail)
	case http.StatusInternalServerError:
		return fmt.Sprintf("confluence: internal server error: %s", detail)
	case http.StatusConflict:
		return fmt.Sprintf("confluence: conflict: %s", detail)
	case http.StatusBadRequest:
		return fmt.Sprintf("confluence: bad request: %s", detail)
	}

	return fmt.Sprintf("confluence: unknown HTTP response status: %s: %s", detail, e.URL)
}

const maxErrorBody = 512

func newStatusError(response *http.Response, url string, body []byte) *StatusError {
	e := &StatusError{
		StatusCode: response.StatusCode,
		Status:     response.Status,
		URL:        url,
	}

	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		e.Message = msg.Message
	} else if len(body) > maxErrorBody {
		e.Message = string(body[:maxErrorBody])
	} else {
		e.Message = string(body)
	}

	return e
}
