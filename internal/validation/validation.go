// Package validation turns untyped request payloads into validated domain
// values using declarative struct tag rules.
package validation

import (
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names ("name") instead of Go field names ("Name").
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("weburl", isWebURL); err != nil {
		panic(err)
	}
	return v
}

// isWebURL accepts absolute URLs with both a scheme and a host.
func isWebURL(fl validator.FieldLevel) bool {
	return IsWebURL(fl.Field().String())
}

// IsWebURL reports whether raw parses as a URL with a scheme and a host
// name. A port alone does not count as a host.
func IsWebURL(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Hostname() != ""
}

// Struct validates any tagged struct with the shared validator.
func Struct(v any) error {
	return validate.Struct(v)
}
