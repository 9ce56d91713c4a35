package session

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	lowerRe = regexp.MustCompile(`[a-z]`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	digitRe = regexp.MustCompile(`\d`)
)

// CustomRule validates a field with access to every current field value, for
// cross-field checks like password confirmation. It returns an error message
// or "".
type CustomRule func(value string, values map[string]string) string

// Rules is the declarative rule set for one form field. Zero values mean the
// check is off.
type Rules struct {
	Required  bool
	Email     bool
	MinLength int
	MaxLength int
	// Password enables the composite strength rule: at least 8 characters
	// with one lowercase, one uppercase, and one digit.
	Password bool
	Custom   CustomRule
}

// Form tracks values, per-field errors, and touched flags for a login or
// registration form. Field validation runs on blur; editing a field clears
// its error. Not safe for concurrent use: forms belong to one event loop.
type Form struct {
	initial map[string]string
	values  map[string]string
	errors  map[string]string
	touched map[string]bool
	rules   map[string]Rules
}

func NewForm(initial map[string]string, rules map[string]Rules) *Form {
	f := &Form{
		initial: copyValues(initial),
		rules:   rules,
	}
	f.Reset()
	return f
}

// Values returns a copy of the current field values.
func (f *Form) Values() map[string]string {
	return copyValues(f.values)
}

// Value returns the current value of one field.
func (f *Form) Value(field string) string {
	return f.values[field]
}

// Errors returns a copy of the current per-field error messages.
func (f *Form) Errors() map[string]string {
	return copyValues(f.errors)
}

// Error returns the current error message for one field.
func (f *Form) Error(field string) string {
	return f.errors[field]
}

// Touched reports whether a field has been blurred or whole-form validated.
func (f *Form) Touched(field string) bool {
	return f.touched[field]
}

// HandleChange updates a field value and clears its error, mirroring the
// clear-as-you-type behavior of the form.
func (f *Form) HandleChange(field, value string) {
	f.values[field] = value
	delete(f.errors, field)
}

// HandleBlur marks the field touched and validates it.
func (f *Form) HandleBlur(field string) {
	f.touched[field] = true
	if msg := f.validateField(field); msg != "" {
		f.errors[field] = msg
	}
}

// Validate runs every declared rule synchronously, marks every declared
// field touched, and reports overall validity.
func (f *Form) Validate() bool {
	valid := true
	f.errors = map[string]string{}

	for field := range f.rules {
		f.touched[field] = true
		if msg := f.validateField(field); msg != "" {
			f.errors[field] = msg
			valid = false
		}
	}

	return valid
}

// IsValid reports whether no field currently holds an error.
func (f *Form) IsValid() bool {
	return len(f.errors) == 0
}

// Reset restores initial values and drops errors and touched flags.
func (f *Form) Reset() {
	f.values = copyValues(f.initial)
	f.errors = map[string]string{}
	f.touched = map[string]bool{}
}

func (f *Form) validateField(field string) string {
	r, ok := f.rules[field]
	if !ok {
		return ""
	}

	value := f.values[field]
	label := fieldLabel(field)

	if r.Required {
		if err := validation.Validate(strings.TrimSpace(value),
			validation.Required.Error(label+" is required"),
		); err != nil {
			return err.Error()
		}
	}

	if value != "" {
		var rules []validation.Rule

		if r.Email {
			rules = append(rules, is.Email.Error("Please enter a valid email address"))
		}
		if r.MinLength > 0 {
			rules = append(rules, validation.Length(r.MinLength, 0).
				Error(fmt.Sprintf("%s must be at least %d characters", label, r.MinLength)))
		}
		if r.MaxLength > 0 {
			rules = append(rules, validation.Length(0, r.MaxLength).
				Error(fmt.Sprintf("%s must be no more than %d characters", label, r.MaxLength)))
		}
		if r.Password {
			rules = append(rules,
				validation.Length(8, 0).Error("Password must be at least 8 characters"),
				validation.Match(lowerRe).Error("Password must contain at least one lowercase letter"),
				validation.Match(upperRe).Error("Password must contain at least one uppercase letter"),
				validation.Match(digitRe).Error("Password must contain at least one number"),
			)
		}

		if len(rules) > 0 {
			if err := validation.Validate(value, rules...); err != nil {
				return err.Error()
			}
		}
	}

	if r.Custom != nil {
		return r.Custom(value, f.Values())
	}

	return ""
}

func fieldLabel(field string) string {
	if field == "" {
		return field
	}
	runes := []rune(field)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func copyValues(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
