package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertErrors parses err with v and checks that field carries detail.
func AssertErrors(t testing.TB, err error, field, detail string, v *Validator) {
	t.Helper()
	AssertValidationErrs(t, v.ParseValidationErrors(err), field, detail)
}

// AssertValidationErrs checks that errs holds an error for field with the
// translated message detail.
func AssertValidationErrs(t testing.TB, errs ValidationErrors, field, detail string) {
	t.Helper()

	details := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, seen := details[e.Field]; !seen {
			details[e.Field] = e.Detail
		}
	}

	got, ok := details[field]
	if assert.Truef(t, ok, "no validation error for %s in %v", field, errs) {
		assert.Equal(t, detail, got)
	}
}
