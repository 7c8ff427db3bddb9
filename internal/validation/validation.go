// Package validation holds the form validator shared by the HTTP handlers
// and the field-level error messages returned to clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	isbn10Pattern = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13Pattern = regexp.MustCompile(`^\d{13}$`)
)

var registerOnce sync.Once

// Register installs the custom rules on gin's validator and makes field
// errors report form names. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(formFieldName)
		_ = v.RegisterValidation("isbn", validateISBN)
	})
}

// formFieldName prefers the form tag, then json, then the Go name.
func formFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// NormalizeISBN strips the separators people usually type.
func NormalizeISBN(raw string) string {
	isbn := strings.ReplaceAll(raw, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return strings.ToUpper(isbn)
}

func validateISBN(fl validator.FieldLevel) bool {
	return ValidISBN(fl.Field().String())
}

// ValidISBN checks ISBN-10 or ISBN-13 format and check digit.
func ValidISBN(raw string) bool {
	isbn := NormalizeISBN(raw)
	switch len(isbn) {
	case 10:
		if !isbn10Pattern.MatchString(isbn) {
			return false
		}
		sum := 0
		for i := 0; i < 10; i++ {
			digit := int(isbn[i] - '0')
			if isbn[i] == 'X' {
				digit = 10
			}
			sum += digit * (10 - i)
		}
		return sum%11 == 0
	case 13:
		if !isbn13Pattern.MatchString(isbn) {
			return false
		}
		sum := 0
		for i := 0; i < 13; i++ {
			digit := int(isbn[i] - '0')
			if i%2 == 1 {
				digit *= 3
			}
			sum += digit
		}
		return sum%10 == 0
	default:
		return false
	}
}

// FieldErrors maps a form field name to its first error message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has an error.
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Translate turns a binding error into field errors. ok is false when the
// error does not come from validation, e.g. a malformed body.
func Translate(err error) (FieldErrors, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), message(fe))
	}
	return out, true
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "number":
		return fmt.Sprintf("%s must be a whole number", field)
	case "isbn":
		return fmt.Sprintf("%s must be a valid ISBN-10 or ISBN-13", field)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, strings.ToLower(param))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
