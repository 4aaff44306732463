package json

import (
	"encoding/json"
	"net/http"

	"tokengate/pkg/platform/validation"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// DecodeJSON decodes a request body into dst, rejecting unknown fields and
// oversized bodies.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, validation.MaxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
