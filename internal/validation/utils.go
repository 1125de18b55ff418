package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/deppfellow/peopledb/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payloads. Validate returns nil, an
// *errs.ValidationError (domain rules) or validator.ValidationErrors
// (struct tags).
type Validatable interface {
	Validate() error
}

// tagMessages renders validator tags that may appear on request structs.
var tagMessages = map[string]string{
	"required": "is required",
	"oneof":    "must be one of: %s",
	"numeric":  "must be a number",
	"max":      "must not exceed %s",
	"min":      "must be at least %s",
}

// BindAndValidate fills payload (a pointer) from path params, query string
// and body, then validates it. Both failures are a 400 *errs.HTTPError;
// validation failures list every offending field.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		message := "Invalid request"
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) && echoErr.Code == http.StatusBadRequest {
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			}
		}
		return errs.NewBadRequestError(message, false, nil, nil)
	}

	if err := payload.Validate(); err != nil {
		return errs.NewBadRequestError("Validation failed", true, nil, fieldErrors(err))
	}
	return nil
}

func fieldErrors(err error) []errs.FieldError {
	var domainErr *errs.ValidationError
	if errors.As(err, &domainErr) {
		return domainErr.Fields
	}

	var tagErrs validator.ValidationErrors
	if !errors.As(err, &tagErrs) {
		return []errs.FieldError{{Field: "request", Error: err.Error()}}
	}

	out := make([]errs.FieldError, 0, len(tagErrs))
	for _, fe := range tagErrs {
		field := strings.ToLower(fe.Field())
		out = append(out, errs.FieldError{Field: field, Error: tagMessage(field, fe)})
	}
	return out
}

func tagMessage(field string, fe validator.FieldError) string {
	if format, ok := tagMessages[fe.Tag()]; ok {
		if strings.Contains(format, "%s") {
			return fmt.Sprintf(format, fe.Param())
		}
		return format
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s: %s", field, fe.Tag())
}
