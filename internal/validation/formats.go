package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// nonBlank rejects strings that are empty after trimming Unicode whitespace.
var nonBlank = &jsonschema.Format{
	Name: "nonblank",
	Validate: func(v any) error {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		if strings.TrimSpace(s) == "" {
			return errors.New("blank string")
		}
		return nil
	},
}

// dateTime replaces the built-in date-time check with the one time.Time uses when
// decoding JSON, so anything that validates also binds.
var dateTime = &jsonschema.Format{
	Name: "date-time",
	Validate: func(v any) error {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		var t time.Time
		return t.UnmarshalText([]byte(s))
	},
}
