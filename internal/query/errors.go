package query

import "fmt"

// UnsupportedFieldError reports a regex query against a field outside the
// allow-list. It is returned synchronously, before any store call.
type UnsupportedFieldError struct {
	Field string
}

func (e *UnsupportedFieldError) Error() string {
	return fmt.Sprintf("field %q does not support regex search", e.Field)
}
