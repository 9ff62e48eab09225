package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TagName is the struct tag request DTOs declare their rules in, shared with gin binding.
const TagName = "binding"

var (
	once     sync.Once
	validate *validator.Validate
)

// firstUpper passes empty strings; required handles presence.
func firstUpper(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(value)
	return unicode.IsUpper(r)
}

// jsonName reports fields by their JSON name when they have one.
func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func register(v *validator.Validate) {
	_ = v.RegisterValidation("firstupper", firstUpper)
}

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName(TagName)
		validate.RegisterTagNameFunc(jsonName)
		register(validate)
	})
	return validate
}

// RegisterGin adds the custom rules to gin's binding validator.
func RegisterGin() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonName)
		register(v)
	}
}

// Struct validates s against its binding tags.
func Struct(s any) error {
	return instance().Struct(s)
}

// Messages renders validation failures as readable sentences.
func Messages(err error) []string {
	var slice binding.SliceValidationError
	if errors.As(err, &slice) {
		var out []string
		for _, e := range slice {
			if e != nil {
				out = append(out, Messages(e)...)
			}
		}
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", field)
	case "max":
		return fmt.Sprintf("The %s field must have %s characters or less", field, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must have at least %s characters", field, fe.Param())
	case "firstupper":
		return fmt.Sprintf("The first letter of %s must be upper case", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address", field)
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL", field)
	default:
		return fmt.Sprintf("The %s field failed the %s rule", field, strings.ToLower(fe.Tag()))
	}
}
