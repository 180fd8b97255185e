package rubric

import (
	"bytes"
	"encoding/json"
	"strings"
)

// UnmarshalJSON accepts an object whose values are strings, booleans or
// numbers. true and false become "yes" and "no"; numbers keep their text.
// Nulls, arrays and objects are dropped.
func (a *Answers) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Answers, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 {
			continue
		}
		switch v[0] {
		case '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			out[k] = s
		case 't':
			out[k] = "yes"
		case 'f':
			out[k] = "no"
		case 'n', '[', '{':
			// dropped
		default:
			out[k] = strings.TrimSpace(string(v))
		}
	}
	*a = out
	return nil
}
