package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// CanonicalID returns the comparable string form of an identifier. UUIDs are
// rendered lower-case and hyphenated regardless of how they were supplied
// (braced, upper-case, urn-prefixed); anything else is only trimmed.
func CanonicalID(id string) string {
	trimmed := strings.TrimSpace(id)
	if parsed, err := uuid.Parse(trimmed); err == nil {
		return parsed.String()
	}
	return trimmed
}

// SameID reports whether two identifiers refer to the same entity.
func SameID(a, b string) bool {
	return CanonicalID(a) == CanonicalID(b)
}

// FlexibleID decodes an identifier supplied either as a JSON string or as a
// bare JSON number.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(CanonicalID(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("id must be a string or a number")
	}
	*f = FlexibleID(n.String())
	return nil
}

// String returns the canonical identifier.
func (f FlexibleID) String() string {
	return string(f)
}
