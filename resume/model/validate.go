package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput marks a malformed resume or job description.
var ErrInvalidInput = errors.New("invalid input")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// A skill must be non-blank and already trimmed.
	_ = v.RegisterValidation("skill", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value != "" && value == strings.TrimSpace(value)
	})
	return v
}

// Validate reports whether r satisfies the resume invariants. Nil collections
// are treated as empty. Returned errors wrap ErrInvalidInput.
func Validate(r Resume) error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidInput, describe(verrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if field, ok := firstInvalidUTF8(r); ok {
		return fmt.Errorf("%w: %s is not valid UTF-8 text", ErrInvalidInput, field)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Resume.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "unique":
		return field + " must not contain duplicates"
	case "skill":
		return field + " must be a non-empty trimmed string"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func firstInvalidUTF8(r Resume) (string, bool) {
	check := func(name, value string) (string, bool) {
		if utf8.ValidString(value) {
			return "", false
		}
		return name, true
	}
	for i, v := range r.PersonalInfo.Values() {
		if name, bad := check(fmt.Sprintf("personalInfo[%d]", i), v); bad {
			return name, true
		}
	}
	if name, bad := check("summary", r.Summary); bad {
		return name, true
	}
	for i, e := range r.Experience {
		for _, v := range []string{e.Company, e.Position, e.StartDate, e.EndDate, e.Description} {
			if name, bad := check(fmt.Sprintf("experience[%d]", i), v); bad {
				return name, true
			}
		}
	}
	for i, e := range r.Education {
		for _, v := range []string{e.Institution, e.Degree, e.Field, e.StartDate, e.EndDate, e.GPA} {
			if name, bad := check(fmt.Sprintf("education[%d]", i), v); bad {
				return name, true
			}
		}
	}
	lists := []struct {
		name  string
		items []string
	}{
		{"skills", r.Skills},
		{"certifications", r.Certifications},
		{"projects", r.Projects},
	}
	for _, list := range lists {
		for i, v := range list.items {
			if name, bad := check(fmt.Sprintf("%s[%d]", list.name, i), v); bad {
				return name, true
			}
		}
	}
	return "", false
}
