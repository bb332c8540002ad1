package validation

import (
	"errors"
	"sort"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// NotBlank rejects strings that are empty after trimming whitespace.
var NotBlank = ozzo.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

// FieldErrors flattens an ozzo validation error into "field: message" lines.
func FieldErrors(err error) []string {
	var fields ozzo.Errors
	if !errors.As(err, &fields) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(fields))
	for name, fe := range fields {
		out = append(out, name+": "+fe.Error())
	}
	sort.Strings(out)
	return out
}
