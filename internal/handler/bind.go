package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/course-eligibility/internal/apperror"
	"github.com/sakif/course-eligibility/internal/regno"
	"github.com/sakif/course-eligibility/internal/service"
)

// maxBodyBytes caps request bodies; every request here is a couple of short strings.
const maxBodyBytes = 64 << 10

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// getValidator returns the shared validator, building it on first use.
// Field names in errors come from the json tags ("register_number", not
// "RegisterNumber"), matching what the client sent.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		// regno: exactly twelve ASCII digits
		_ = v.RegisterValidation("regno", func(fl validator.FieldLevel) bool {
			return regno.Valid(fl.Field().String())
		})

		validate = v
	})
	return validate
}

// decodeAndValidate reads a JSON body into dst and runs the struct's
// validate tags. Any failure comes back as an apperror validation error.
func decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.ValidationFailed("", "Request body is required")
		}
		return apperror.ValidationFailed("", "Invalid JSON body")
	}

	if err := getValidator().Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperror.ValidationFailed(fe.Field(), validationMessage(fe))
		}
		return fmt.Errorf("validating request: %w", err)
	}
	return nil
}

// validationMessage turns the first failed rule into the message the form shows.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "regno":
		return service.MsgInvalidRegisterNumber
	case "required":
		if fe.Field() == "register_number" {
			return service.MsgInvalidRegisterNumber
		}
		if strings.HasSuffix(fe.Field(), "course_title") {
			return service.MsgTitleRequired
		}
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field() + " validation failed: " + fe.Tag()
	}
}
