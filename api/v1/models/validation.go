package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MaxNameWords   = 10
	MinNameWordLen = 3
	MaxNameWordLen = 10
)

// User-facing messages, returned to clients as is.
//
//nolint:staticcheck // capitalized and punctuated on purpose
var (
	ErrNameNoWords      = errors.New("Name must contain at least one word.")
	ErrNameTooManyWords = errors.New("Name cannot contain more than 10 words.")
	ErrNameWordTooShort = errors.New("Each word must be at least 3 characters long.")
	ErrNameWordTooLong  = errors.New("Each word must not exceed 10 characters.")
)

// ValidateUserName checks that name has 1-10 whitespace separated words of
// 3-10 characters each. Words are checked in order and the first failing
// rule is reported.
func ValidateUserName(name string) error {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ErrNameNoWords
	}
	if len(words) > MaxNameWords {
		return ErrNameTooManyWords
	}

	for _, word := range words {
		n := utf8.RuneCountInString(word)
		if n < MinNameWordLen {
			return ErrNameWordTooShort
		}
		if n > MaxNameWordLen {
			return ErrNameWordTooLong
		}
	}

	return nil
}

// NewValidator returns a validator with the username tag registered and
// field names taken from json tags.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidateUserName(fl.Field().String()) == nil
	})

	return v
}

// ValidationIssues converts a decode or validation error into the issue list
// returned to clients.
func ValidationIssues(err error) []ValidationIssue {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		issues := make([]ValidationIssue, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			issues = append(issues, fieldIssue(fe))
		}
		return issues
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationIssue{{
			Loc:  []interface{}{"body", typeErr.Field},
			Msg:  fmt.Sprintf("value is not a valid %s", typeErr.Type),
			Type: "type_error",
		}}
	}

	return []ValidationIssue{{
		Loc:  []interface{}{"body"},
		Msg:  "JSON decode error",
		Type: "value_error.jsondecode",
	}}
}

func fieldIssue(fe validator.FieldError) ValidationIssue {
	issue := ValidationIssue{
		Loc:  []interface{}{"body", fe.Field()},
		Type: "value_error",
	}

	switch fe.Tag() {
	case "required":
		issue.Msg = "field required"
		issue.Type = "value_error.missing"
	case "username":
		var value string
		switch v := fe.Value().(type) {
		case string:
			value = v
		case *string:
			if v != nil {
				value = *v
			}
		}
		if err := ValidateUserName(value); err != nil {
			issue.Msg = err.Error()
		}
	default:
		issue.Msg = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}

	return issue
}
