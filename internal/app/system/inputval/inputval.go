// Package inputval validates decoded request bodies with struct tags and
// reports failures keyed by JSON field name, ready for
// jsonutil.ValidationError.
//
//	type InquiryInput struct {
//	    FullName string `json:"fullName" validate:"required,max=200" label:"Full name"`
//	    Mobile   string `json:"mobile" validate:"required,phone" label:"Mobile number"`
//	}
//
//	if fields := inputval.Validate(in); fields != nil {
//	    jsonutil.ValidationError(w, fields)
//	    return
//	}
package inputval

import (
	"net/mail"
	"reflect"
	"strings"
	"sync"

	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
)

// Fields maps a JSON field name to a message fit for display.
type Fields map[string]string

var (
	validator     *validate.Validator
	validatorOnce sync.Once
)

func rules() *validate.Validator {
	validatorOnce.Do(func() {
		validator = validate.New(validate.WithStopOnFirstError())
		validator.RegisterRuleFunc("phone", stringRule(IsValidPhone), "phone")
		validator.RegisterRuleFunc("slug", stringRule(models.ValidSlug), "slug")
	})
	return validator
}

func stringRule(fn func(string) bool) func(any) bool {
	return func(value any) bool {
		s, ok := value.(string)
		return ok && fn(s)
	}
}

// Validate checks s against its `validate` tags. It returns nil when s is
// valid. Besides the pantry/validate built-ins, "phone" and "slug" are
// understood. A `label` tag names the field in messages.
func Validate(s any) Fields {
	err := rules().Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validate.Errors)
	if !ok {
		return Fields{"": err.Error()}
	}

	labels := labelsOf(s)
	out := make(Fields, len(errs))
	for _, e := range errs {
		if _, seen := out[e.Field]; seen {
			continue
		}
		label := labels[e.Field]
		if label == "" {
			label = e.Field
		}
		out[e.Field] = message(label, e.Rule, e.Param)
	}
	return out
}

// labelsOf maps JSON field names to their label tags.
func labelsOf(s any) map[string]string {
	labels := make(map[string]string)
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return labels
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		label := f.Tag.Get("label")
		if label == "" {
			continue
		}
		name := f.Name
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" {
			name = tag
		}
		labels[name] = label
	}
	return labels
}

func message(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " must be at least " + param + " characters."
	case "max":
		return label + " must be at most " + param + " characters."
	case "phone":
		return label + " must be a valid phone number."
	case "slug":
		return label + " may contain only lowercase letters, digits and hyphens."
	}
	return label + " is invalid."
}

// IsValidEmail reports whether s is a bare address, without a display name.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// IsValidPhone accepts an optional leading "+" followed by digits with
// spaces, dashes, dots or parentheses between them, 7 to 15 digits in all.
func IsValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case strings.ContainsRune(" -.()", r):
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
