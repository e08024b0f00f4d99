// Package validator turns request binding failures into per-field messages
// keyed by the JSON field name.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ncobase/shopfront/ecode"
)

// errorMessages maps validation tags to messages.
var errorMessages = map[string]string{
	"required": "The field '%s' is required.",
	"email":    "The field '%s' must be a valid email address.",
	"min":      "The field '%s' must be at least %s characters long.",
	"max":      "The field '%s' must be no longer than %s characters.",
	"gt":       "The field '%s' must be greater than %s.",
	"gte":      "The field '%s' must be greater than or equal to %s.",
	"eqfield":  "The field '%s' must match %s.",
	"oneof":    "The field '%s' must be one of %s.",
}

// parseMessage constructs a friendly error message for a failed tag.
func parseMessage(jsonTag string, e validator.FieldError) string {
	if msg, ok := errorMessages[e.Tag()]; ok {
		switch strings.Count(msg, "%s") {
		case 1:
			return fmt.Sprintf(msg, jsonTag)
		case 2:
			return fmt.Sprintf(msg, jsonTag, e.Param())
		}
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", jsonTag, e.Tag())
}

// jsonName returns the JSON name of a struct field of obj.
func jsonName(obj any, structField string) string {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return structField
	}
	field, ok := t.FieldByName(structField)
	if !ok {
		return structField
	}
	name := strings.Split(field.Tag.Get("json"), ",")[0]
	if name == "" || name == "-" {
		return structField
	}
	return name
}

// FieldErrors maps the validation failures in err to messages keyed by
// the JSON names of obj's fields. It returns nil when err holds none.
func FieldErrors(obj any, err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		name := jsonName(obj, e.StructField())
		fields[name] = parseMessage(name, e)
	}
	return fields
}

// BindError classifies a binding failure of obj as a validation error.
func BindError(obj any, err error) *ecode.Error {
	if fields := FieldErrors(obj, err); len(fields) > 0 {
		return ecode.Validation(ecode.Text(ecode.RequestErr)).WithFields(fields)
	}
	return ecode.Validation("invalid request body")
}
