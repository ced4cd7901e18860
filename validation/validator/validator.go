// Package validator turns go-playground/validator failures into friendly
// messages keyed by JSON field name. Request structs use gin's "binding" tag.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(jsonName)
	return v
}

// jsonName reports the JSON name of a struct field
func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

var registerOnce sync.Once

// RegisterGin makes gin's binding validator report JSON field names
func RegisterGin() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonName)
		}
	})
}

// errorMessages is a nested map of languages to validation tags to custom error messages.
var errorMessages = map[string]map[string]string{
	"en": {
		"required": "The field '%s' is required.",
		"min":      "The field '%s' must be at least %s.",
		"max":      "The field '%s' must be at most %s.",
		"lte":      "The field '%s' must be less than or equal to %s.",
		"gte":      "The field '%s' must be greater than or equal to %s.",
		"gt":       "The field '%s' must be greater than %s.",
		"lt":       "The field '%s' must be less than %s.",
		"oneof":    "The field '%s' must be one of [%s].",
		"uuid":     "The field '%s' must be a valid UUID.",
	},
	"zh": {
		"required": "字段 '%s' 为必填项。",
		"min":      "字段 '%s' 不能小于 %s。",
		"max":      "字段 '%s' 不能大于 %s。",
		"lte":      "字段 '%s' 的值必须小于或等于 %s。",
		"gte":      "字段 '%s' 的值必须大于或等于 %s。",
		"gt":       "字段 '%s' 的值必须大于 %s。",
		"lt":       "字段 '%s' 的值必须小于 %s。",
		"oneof":    "字段 '%s' 的值必须是 [%s] 之一。",
		"uuid":     "字段 '%s' 必须是有效的 UUID。",
	},
}

// parseMessage constructs a friendly error message based on the validation tag and custom messages.
func parseMessage(field string, e validator.FieldError, lang ...string) string {
	msgLang := "en"
	if len(lang) > 0 && lang[0] != "" {
		msgLang = lang[0]
	}
	if msgs, ok := errorMessages[msgLang]; ok {
		if msg, ok := msgs[e.Tag()]; ok {
			if strings.Count(msg, "%s") == 2 {
				return fmt.Sprintf(msg, field, e.Param())
			}
			return fmt.Sprintf(msg, field)
		}
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", field, e.Tag())
}

// Translate maps a validation error to field messages. It returns nil when
// err is not a validation error.
func Translate(err error, lang ...string) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field()] = parseMessage(e.Field(), e, lang...)
	}
	return out
}

// ValidateStruct validates s and returns a map of JSON field names to
// friendly error messages; the map is empty when s is valid.
func ValidateStruct(s any, lang ...string) map[string]string {
	if err := validate.Struct(s); err != nil {
		if msgs := Translate(err, lang...); msgs != nil {
			return msgs
		}
		return map[string]string{"": err.Error()}
	}
	return map[string]string{}
}
