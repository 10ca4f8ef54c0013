package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator turns binding failures into per-field messages keyed by their
// JSON names.
type Validator struct {
	trans ut.Translator
}

// New configures gin's validator engine and returns a Validator bound to it.
func New() *Validator {
	v := &Validator{}

	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return v
	}

	engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	v.trans, _ = uni.GetTranslator("en")

	_ = en_translations.RegisterDefaultTranslations(engine, v.trans)
	return v
}

// RequestError is a body that decoded but failed validation.
type RequestError struct {
	Fields map[string]string
}

func (e *RequestError) Error() string {
	return "Invalid request"
}

// IsValidation reports whether err came from struct validation or a field
// type mismatch. Unparsable bodies, and bodies that are not a JSON object,
// are not validation errors.
func IsValidation(err error) bool {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr) && typeErr.Field != ""
}

// ParseError converts raw binding errors into a clean map.
// Nested fields keep their hierarchical names, e.g. "history[0].role".
func (v *Validator) ParseError(err error) *RequestError {
	errMap := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			ns := e.Namespace()

			if i := strings.Index(ns, "."); i != -1 {
				ns = ns[i+1:]
			}

			msg := e.Error()
			if v.trans != nil {
				msg = e.Translate(v.trans)
			}

			if e.Tag() == "oneof" {
				msg = fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(e.Param(), " ", ", "))
			}

			errMap[ns] = msg
		}
		return &RequestError{Fields: errMap}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errMap[typeErr.Field] = fmt.Sprintf("must be a %s", typeErr.Type.String())
		return &RequestError{Fields: errMap}
	}

	errMap["body"] = "Invalid request body format. Please fix your payload."
	return &RequestError{Fields: errMap}
}
