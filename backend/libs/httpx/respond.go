package httpx

import (
	"encoding/json"
	"io"
	"net/http"
)

// ErrorBody is the JSON error envelope shared by the API and its clients.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON encodes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes an ErrorBody.
func WriteError(w http.ResponseWriter, status int, errTitle, message string) {
	WriteJSON(w, status, ErrorBody{Error: errTitle, Message: message})
}

// DecodeJSON reads at most limit bytes of r's body into dst.
func DecodeJSON(r *http.Request, limit int64, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, limit)
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
