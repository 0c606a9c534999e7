package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID is a loosely typed identifier. Stored documents carry it either as a JSON
// number or as a JSON string, and both forms of the same value compare equal.
type ID string

// NewID returns the ID for a numeric identifier.
func NewID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// String returns the identifier without surrounding whitespace.
func (id ID) String() string {
	return strings.TrimSpace(string(id))
}

// IsZero reports whether the identifier is blank.
func (id ID) IsZero() bool {
	return id.String() == ""
}

// Int64 returns the numeric value of the identifier, if it has one.
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Equal compares two identifiers treating numeric and string forms of the
// same value as equal.
func (id ID) Equal(other ID) bool {
	a, aok := id.Int64()
	b, bok := other.Int64()
	if aok && bok {
		return a == b
	}
	return id.String() == other.String()
}

// Is compares the identifier against a numeric one.
func (id ID) Is(n int64) bool {
	v, ok := id.Int64()
	return ok && v == n
}

// MarshalJSON writes numeric identifiers as JSON numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int64(); ok {
		return strconv.AppendInt(nil, n, 10), nil
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = NewID(i)
		return nil
	}
	f, err := n.Float64()
	if err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
		*id = NewID(int64(f))
		return nil
	}
	*id = ID(n.String())
	return nil
}
