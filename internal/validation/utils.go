package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/deppfellow/survey/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - Define a request struct with validator tags (`validate:"required"`)
//   - Implement Validate() error that runs validation.Struct(req)
//   - Return validator.ValidationErrors (or CustomValidationErrors for custom cases)
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// It is used for rules that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// Messages used for bodies that cannot be read as a JSON object at all.
const (
	MsgMalformedBody   = "Malformed request body"
	MsgUnsupportedBody = "Request body must be JSON"
	MsgValidation      = "Validation failed"
)

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. The body is read as one JSON object. A body that is not JSON, holds
//     more than one value, or is not an object is rejected as malformed.
//     A missing Content-Type is read as JSON.
//  2. Each declared field is decoded on its own, so every field with the
//     wrong JSON type is reported, not just the first. A mistyped field
//     is left unset.
//  3. payload.Validate() applies the tag rules (e.g. required).
//  4. Every offending field is returned in a single 422 *errs.HTTPError.
//
// payload must be a pointer to a struct. Unknown keys are ignored.
func BindAndValidate(c echo.Context, payload Validatable) error {
	fieldErrors, err := bindJSON(c, payload)
	if err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		fieldErrors = mergeFieldErrors(fieldErrors, extractValidationError(err))
	}

	if len(fieldErrors) > 0 {
		return errs.NewValidationError(MsgValidation, fieldErrors)
	}

	return nil
}

// bindJSON decodes the request body into payload field by field.
//
// It returns the type errors found, or a 422 *errs.HTTPError when the
// body as a whole is unusable. An empty body binds nothing.
func bindJSON(c echo.Context, payload any) ([]errs.FieldError, error) {
	req := c.Request()
	if req.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, errs.NewValidationError(MsgMalformedBody, nil)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	ctype := req.Header.Get(echo.HeaderContentType)
	if ctype != "" && !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return nil, errs.NewValidationError(MsgUnsupportedBody, nil)
	}

	raw, err := decodeObject(body)
	if err != nil {
		return nil, errs.NewValidationError(MsgMalformedBody, nil)
	}

	target := reflect.ValueOf(payload)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("validation: payload must be a pointer to a struct, got %T", payload)
	}

	return bindFields(target.Elem(), raw), nil
}

// decodeObject reads exactly one JSON object; trailing data is an error.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		// The body was the literal null.
		return nil, errors.New("body is not a JSON object")
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}

	return raw, nil
}

// bindFields sets every exported field of v whose json name appears in
// raw. Values are decoded into a scratch value first, so a mistyped
// field keeps its zero value (nil for pointers).
func bindFields(v reflect.Value, raw map[string]json.RawMessage) []errs.FieldError {
	var fieldErrors []errs.FieldError

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := jsonName(field)
		if name == "" {
			continue
		}

		value, ok := raw[name]
		if !ok {
			continue
		}

		scratch := reflect.New(field.Type)
		if err := json.Unmarshal(value, scratch.Interface()); err != nil {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: name,
				Error: fmt.Sprintf("must be %s", kindName(field.Type)),
			})
			continue
		}

		v.Field(i).Set(scratch.Elem())
	}

	return fieldErrors
}

func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	default:
		return "of type " + t.String()
	}
}

// mergeFieldErrors appends extra to base, skipping fields base already
// reports. A mistyped field is left unset and so also fails "required";
// the type message is the more useful one.
func mergeFieldErrors(base, extra []errs.FieldError) []errs.FieldError {
	seen := make(map[string]bool, len(base))
	for _, fe := range base {
		seen[fe.Field] = true
	}

	for _, fe := range extra {
		if seen[fe.Field] {
			continue
		}
		seen[fe.Field] = true
		base = append(base, fe)
	}
	return base
}

func extractValidationError(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []errs.FieldError{{Field: "body", Error: err.Error()}}
	}

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			// min is a length for strings and a value for numbers.
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", err.Field(), err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: err.Field(),
			Error: msg,
		})
	}

	return fieldErrors
}
