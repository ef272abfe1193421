// Package forms validates user input for posts, comments and groups. Forms keep
// the submitted values so a rejected form can be returned together with its errors.
// They never touch persistence beyond read-only lookups.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cppla/yatube/utils"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgInvalidSlug   = "Enter a valid slug consisting of letters, numbers, underscores or hyphens."

	msgInvalidUsername  = "Enter a valid username consisting of letters, numbers, underscores or hyphens."
	msgReservedUsername = "This username is reserved."
	msgPasswordMismatch = "The two password fields didn't match."
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report errors under the form field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// Errors maps a field name to its messages.
type Errors map[string][]string

// Add appends msg to field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has at least one error.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// requireVisible flags non-empty values that are nothing but markup. Empty values are
// already reported by the "required" rule.
func (e Errors) requireVisible(field, value string) {
	if value != "" && utils.Blank(value) {
		e.Add(field, msgRequired)
	}
}

func (e Errors) collect(err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		e.Add("__all__", err.Error())
		return
	}
	for _, fe := range verrs {
		e.Add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "slug":
		if fe.Field() == "username" {
			return msgInvalidUsername
		}
		return msgInvalidSlug
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return msgPasswordMismatch
	}
	return "Enter a valid value."
}
