package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a payment record or a user. The backend emits integers but
// the client never does arithmetic on them, so they are kept as strings.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string or number. null leaves the ID empty.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}
