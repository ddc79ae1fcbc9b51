package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zhouzirui/crud-games/backend/internal/errs"
	"github.com/zhouzirui/crud-games/backend/internal/model/game"
)

// Payload is a decoded JSON object whose values have not been checked yet.
type Payload map[string]any

// RequireJSON rejects a declared Content-Type that is not JSON
// (application/json or any +json suffix). An absent header is accepted and
// the body is decoded as JSON.
func RequireJSON(contentType string) error {
	if strings.TrimSpace(contentType) == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return errs.InvalidBody()
	}
	if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
		return nil
	}
	return errs.InvalidBody()
}

// ParseBody decodes r into a Payload. Anything that is not exactly one JSON
// object yields errs.InvalidBody.
func ParseBody(r io.Reader) (Payload, error) {
	if r == nil {
		return nil, errs.InvalidBody()
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errs.InvalidBody()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errs.InvalidBody()
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errs.InvalidBody()
	}
	return Payload(obj), nil
}

// GameDraft validates a payload against the game rules. On failure it
// returns an *errs.HTTPError listing every failing field; its message is the
// first field's message.
func GameDraft(p Payload) (game.Draft, error) {
	var fieldErrors []errs.FieldError
	failed := make(map[string]bool)

	coerce := func(field string) string {
		value, err := coerceString(p[field])
		if err != nil {
			failed[field] = true
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: field,
				Error: fmt.Sprintf("%s %s", field, err.Error()),
			})
		}
		return strings.TrimSpace(value)
	}

	draft := game.Draft{
		Name:  coerce("name"),
		Image: coerce("image"),
	}

	if err := Struct(draft); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return game.Draft{}, err
		}
		for _, fe := range validationErrors {
			if failed[fe.Field()] {
				continue
			}
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: fe.Field(),
				Error: describe(fe),
			})
		}
	}

	if len(fieldErrors) > 0 {
		sortByField(fieldErrors, "name", "image")
		return game.Draft{}, errs.NewValidationError(fieldErrors[0].Error, fieldErrors)
	}
	return draft, nil
}

var errNotString = errors.New("must be a `string` type")

// coerceString mirrors lenient string casting: numbers and booleans become
// their text form, null and missing are empty.
func coerceString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case float64, int, int64:
		return fmt.Sprint(val), nil
	default:
		return "", errNotString
	}
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is a required field"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "weburl", "url":
		return field + " must be a valid URL"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s:%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// sortByField orders errors by the declared field order, keeping the
// relative order of errors on the same field.
func sortByField(fieldErrors []errs.FieldError, order ...string) {
	rank := make(map[string]int, len(order))
	for i, f := range order {
		rank[f] = i
	}
	sort.SliceStable(fieldErrors, func(i, j int) bool {
		return rank[fieldErrors[i].Field] < rank[fieldErrors[j].Field]
	})
}
