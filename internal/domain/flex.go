package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString holds a scalar that merchants' configuration may encode either
// as a JSON string or as a JSON number. Other JSON kinds decode to "".
type FlexString string

// String returns the textual value
func (f FlexString) String() string {
	return string(f)
}

// UnmarshalJSON accepts strings and numbers without failing on other kinds
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = ""
			return nil
		}
		*f = FlexString(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*f = FlexString(string(data))
	default:
		*f = ""
	}
	return nil
}

// ParseLeadingInt parses the leading integer of s the way a lenient form
// parser does: surrounding whitespace is ignored, an optional sign is allowed
// and parsing stops at the first non-digit ("3 items" -> 3, "2.9" -> 2).
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	n := 0
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if n > 1<<31 {
			break
		}
	}
	if digits == 0 {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}
