package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an absent JSON field from an explicit null
// for merge-patch bodies (RFC 7396):
//   - Present=false: field absent, leave unchanged
//   - Present=true, Value=nil: JSON null, clear
//   - Present=true, Value=&"x": set
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON is only invoked when the key exists in the payload.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
