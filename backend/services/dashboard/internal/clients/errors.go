package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a non-2xx API response.
type HTTPError struct {
	StatusCode int
	Title      string
	Message    string
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: status}
	var decoded struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &decoded) == nil {
		e.Title = decoded.Error
		e.Message = decoded.Message
	}
	if e.Title == "" {
		e.Title = http.StatusText(status)
	}
	return e
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Title, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Title)
}

// IsStatus reports whether err is an *HTTPError with the given status code.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}

// MessageOf returns the API's message for err, or fallback when there is none.
func MessageOf(err error, fallback string) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return fallback
}
