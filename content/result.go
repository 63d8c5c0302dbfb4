package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Result is the endpoint's reply to a create. Only `success` and `id` are read
type Result struct {
	Success Truthy `json:"success"`
	ID      ID     `json:"id"`
}

func (r Result) OK() bool { return bool(r.Success) }

// Truthy decodes any JSON value the way a browser would test it in an `if`.
// false, 0, "", null and a missing field are false, everything else is true
type Truthy bool

func (t *Truthy) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")):
		*t = false
	case bytes.Equal(b, []byte("true")):
		*t = true
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode string: %w", err)
		}
		*t = s != ""
	case b[0] == '{', b[0] == '[':
		*t = true
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("decode number %q: %w", b, err)
		}
		*t = f != 0
	}
	return nil
}

// ID is a server assigned identifier kept as display text. The endpoint sends
// integers but strings are accepted too. Anything else is kept as its raw
// JSON text rather than failing the whole reply
type ID string

func (i *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*i = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode string: %w", err)
		}
		*i = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			*i = ID(b)
			return nil
		}
		*i = ID(n.String())
	}
	return nil
}

func (i ID) String() string { return string(i) }
