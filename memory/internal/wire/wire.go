// Package wire decodes the tagged wrapper values the Mycelia API may emit in
// place of plain scalars. Identifiers arrive either as "abc123" or as
// {"$oid": "abc123"}; dates either as an RFC-3339 string or as
// {"$date": "..."}. Scalar accepts both forms so the rest of the codebase
// never branches on the wire shape.
package wire

import (
	"encoding/json"
	"fmt"
)

// Scalar is a string value that unmarshals from either a plain JSON scalar or
// a single-key tagged wrapper such as {"$oid": ...} or {"$date": ...}.
// Unwrapping is idempotent: an already-plain value passes through unchanged.
type Scalar string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}

	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*s = Scalar(plain)
		return nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err == nil {
		for key, raw := range tagged {
			if len(key) > 0 && key[0] == '$' {
				var inner string
				if err := json.Unmarshal(raw, &inner); err != nil {
					return fmt.Errorf("wire: tagged value %s is not a string: %w", key, err)
				}
				*s = Scalar(inner)
				return nil
			}
		}
		return fmt.Errorf("wire: object value has no $-tagged key")
	}

	// Numbers, booleans: keep the raw text representation.
	*s = Scalar(data)
	return nil
}

// String returns the unwrapped value.
func (s Scalar) String() string { return string(s) }

// Object mirrors the remote Mycelia object record. Fields the backend owns
// but the adapter never reads are omitted on purpose.
type Object struct {
	ID        Scalar   `json:"_id"`
	Name      string   `json:"name"`
	Details   string   `json:"details"`
	Aliases   []string `json:"aliases"`
	CreatedAt Scalar   `json:"createdAt"`
	UpdatedAt Scalar   `json:"updatedAt"`
}

// CreateResult is the response shape of the objects create action.
type CreateResult struct {
	InsertedID Scalar `json:"insertedId"`
}

// DeleteResult is the response shape of the objects delete action.
type DeleteResult struct {
	DeletedCount int `json:"deletedCount"`
}
