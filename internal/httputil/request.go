package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxJSONBody caps request bodies on JSON endpoints; uploads use multipart
const maxJSONBody = 1 << 20

// ParseJSON decodes the request body into dest, rejecting unknown fields.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
