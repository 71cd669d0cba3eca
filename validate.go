package feed

import (
	"regexp"
	"strings"
)

// FormMode selects the active field set and validation schema. It changes
// only through an explicit toggle.
type FormMode string

const (
	ModeLogin    FormMode = "login"
	ModeRegister FormMode = "register"
)

// ValidationError reports one offending field. It blocks submission and
// never transitions state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string { return e.Field + ": " + e.Reason }

// ValidationErrors carries every offending field of one draft, not just
// the first.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Error()
	}
	return strings.Join(parts, "; ")
}

const (
	reasonRequired = "required"
	reasonEmail    = "invalid email"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func checkRequired(errs ValidationErrors, field, value string) ValidationErrors {
	if value == "" {
		return append(errs, ValidationError{Field: field, Reason: reasonRequired})
	}
	return errs
}

func checkEmail(errs ValidationErrors, field, value string) ValidationErrors {
	if value == "" {
		return append(errs, ValidationError{Field: field, Reason: reasonRequired})
	}
	if !emailRe.MatchString(value) {
		return append(errs, ValidationError{Field: field, Reason: reasonEmail})
	}
	return errs
}

func validateLogin(d *LoginData) ValidationErrors {
	var errs ValidationErrors
	errs = checkEmail(errs, "email", d.Email)
	errs = checkRequired(errs, "password", d.Password)
	return errs
}

func validateRegister(d *RegisterData, pictureStaged bool) ValidationErrors {
	var errs ValidationErrors
	errs = checkRequired(errs, "firstName", d.FirstName)
	errs = checkRequired(errs, "lastName", d.LastName)
	errs = checkEmail(errs, "email", d.Email)
	errs = checkRequired(errs, "password", d.Password)
	errs = checkRequired(errs, "location", d.Location)
	errs = checkRequired(errs, "occupation", d.Occupation)
	if !pictureStaged {
		errs = append(errs, ValidationError{Field: "picture", Reason: reasonRequired})
	}
	return errs
}
