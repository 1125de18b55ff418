package person

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/deppfellow/peopledb/internal/errs"
	"github.com/go-playground/validator/v10"
)

var (
	digitsRe    = regexp.MustCompile(`^\d+$`)
	lettersRe   = regexp.MustCompile(`^[а-яА-Яa-zA-Z]+$`)
	cityRe      = regexp.MustCompile(`^[а-яА-Яa-zA-Z.-]+$`)
	dateShapeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// validate is safe for concurrent use; custom tags are registered once.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names ("birth_date") instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "digits", matches(digitsRe))
	mustRegister(v, "letters", matches(lettersRe))
	mustRegister(v, "city", matches(cityRe))
	mustRegister(v, "date_shape", matches(dateShapeRe))
	mustRegister(v, "int64", func(fl validator.FieldLevel) bool {
		_, err := strconv.ParseInt(fl.Field().String(), 10, 64)
		return err == nil
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	return digitsRe.MatchString(s)
}

// ValidateID checks a lookup identifier. The error is an *errs.ValidationError.
func ValidateID(id string) error {
	if !IsDigits(id) {
		return errs.NewValidationError(errs.FieldError{Field: "id", Error: messageFor("id", "digits")})
	}
	return nil
}

// Validate checks every field of f and aggregates all violations into one
// *errs.ValidationError. It returns nil when f is valid.
func Validate(f Fields) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, errs.FieldError{
			Field: fe.Field(),
			Error: messageFor(fe.Field(), fe.Tag()),
		})
	}
	return errs.NewValidationError(fields...)
}

func messageFor(field, tag string) string {
	switch tag {
	case "digits":
		return field + " must contain only digits"
	case "int64":
		return field + " is out of range"
	case "letters":
		return field + " must contain only Cyrillic or Latin letters"
	case "city":
		return field + " must contain only Cyrillic or Latin letters, '.' or '-'"
	case "date_shape":
		return field + " must be formatted as yyyy-mm-dd"
	case "datetime":
		return field + " is not a valid calendar date"
	case "oneof":
		return field + " must be 0 or 1"
	default:
		return field + " is invalid"
	}
}
