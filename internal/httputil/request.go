package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"cumulus/internal/config"
)

// ParseJSON decodes a JSON request body into dest, bounding the body size.
// File payloads never travel as JSON; this limit covers metadata requests
// only.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxJSONBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
