// Package validation implements local input validation for credentials and
// profile fields. Rules are registered on a go-playground/validator instance
// so that request payloads can be checked with struct tags, and the same
// rules are exposed as simple predicates for field-level checks.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// Patterns are matched against the whole input.
var (
	emailRe = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// Error is a user-facing validation failure. It never wraps a lower-level
// error: validation happens before any network or storage call.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validator checks credentials and profile input.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the application's custom rules registered:
// acct_email, acct_name and acct_phone. Password bounds use the builtin
// min/max tags.
func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	rules := map[string]validator.Func{
		"acct_email": validateEmail,
		"acct_name":  validateName,
		"acct_phone": validatePhone,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}

	return &Validator{v: v}, nil
}

func validateEmail(fl validator.FieldLevel) bool {
	return emailRe.MatchString(fl.Field().String())
}

func validateName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return strings.TrimSpace(name) != "" && len([]rune(name)) >= 2
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(fl.Field().String())
}

// IsValidEmail reports whether s matches the email pattern.
func (va *Validator) IsValidEmail(s string) bool {
	return va.v.Var(s, "acct_email") == nil
}

// IsValidPassword reports whether the password length is within
// [MinPasswordLength, MaxPasswordLength].
func (va *Validator) IsValidPassword(s string) bool {
	return va.v.Var(s, "min=8,max=128") == nil
}

// IsValidName reports whether the trimmed name is at least 2 characters.
func (va *Validator) IsValidName(s string) bool {
	return va.v.Var(s, "acct_name") == nil
}

// IsValidPhone reports whether s is 10 to 15 digits.
func (va *Validator) IsValidPhone(s string) bool {
	return va.v.Var(s, "acct_phone") == nil
}

// Struct validates a tagged payload and converts the first failure into a
// user-facing *Error.
func (va *Validator) Struct(s any) error {
	if err := va.v.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// LoginInput checks the login form: email format first, then password
// length, mirroring the order the UI reports errors in.
func (va *Validator) LoginInput(email, password string) error {
	if !va.IsValidEmail(email) {
		return &Error{Field: "email", Message: "invalid email format"}
	}
	if !va.IsValidPassword(password) {
		return &Error{
			Field:   "password",
			Message: fmt.Sprintf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength),
		}
	}
	return nil
}

// RegisterInput checks the registration form: the name rule runs first, then
// the login rules.
func (va *Validator) RegisterInput(email, password, name string) error {
	if !va.IsValidName(name) {
		return &Error{Field: "name", Message: "name must be at least 2 characters"}
	}
	return va.LoginInput(email, password)
}

// formatValidationError maps validator.ValidationErrors to a single
// user-facing message for the first failed field.
func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}

	e := verrs[0]
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "acct_email":
		return &Error{Field: field, Message: "invalid email format"}
	case "acct_name":
		return &Error{Field: field, Message: fmt.Sprintf("%s must be at least 2 characters", field)}
	case "acct_phone":
		return &Error{Field: field, Message: fmt.Sprintf("%s must be 10 to 15 digits", field)}
	case "min":
		return &Error{Field: field, Message: fmt.Sprintf("%s must be at least %s characters", field, e.Param())}
	case "max":
		return &Error{Field: field, Message: fmt.Sprintf("%s must be at most %s characters", field, e.Param())}
	case "required":
		return &Error{Field: field, Message: fmt.Sprintf("%s is required", field)}
	default:
		return &Error{Field: field, Message: fmt.Sprintf("%s is invalid", field)}
	}
}
