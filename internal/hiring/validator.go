// File: internal/hiring/validator.go
package hiring

import (
	"fmt"
	"time"
	"unicode"

	"castlecare_backend/internal/config"

	"github.com/go-playground/validator/v10"
)

const (
	dateOfBirthLayout = "2006-01-02"
	minUsernameLen    = 3
	minZipLen         = 5
	minPhoneDigits    = 10
	minCredentialLen  = 8
)

var fieldValidator = validator.New()

// Policy captures the revision-dependent validation knobs. The role-selection
// requirement is deliberately an explicit configuration value rather than a
// hardcoded behavior.
type Policy struct {
	RequireRoleSelection bool
	MinAge               int
}

// PolicyFromConfig derives the validation policy from application configuration.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		RequireRoleSelection: cfg.RequireRoleSelection,
		MinAge:               cfg.MinApplicantAge,
	}
}

// ValidationResult reports whether a step's constraints are satisfied.
type ValidationResult struct {
	OK     bool         `json:"ok"`
	Errors []FieldError `json:"errors,omitempty"`
}

// CanAdvance decides whether the draft satisfies the constraints of the given
// step. It is pure and never mutates the draft.
func CanAdvance(step Step, draft *ApplicationDraft, policy Policy) ValidationResult {
	return canAdvanceAt(step, draft, policy, time.Now())
}

// canAdvanceAt exists so the age rule can be exercised against a fixed "today".
func canAdvanceAt(step Step, draft *ApplicationDraft, policy Policy, now time.Time) ValidationResult {
	var errs []FieldError

	switch step {
	case StepPlan:
		if draft.Account.Plan != TierFree && draft.Account.Plan != TierPreferred {
			errs = append(errs, FieldError{Field: "account.plan", Message: "Choose a plan to continue."})
		}

	case StepContactInfo:
		errs = validateContact(draft.Contact, policy, now)

	case StepRoles:
		if policy.RequireRoleSelection && draft.Roles.RoleCount() == 0 {
			errs = append(errs, FieldError{Field: "roles", Message: "Select at least one role to continue."})
		}

	case StepSignUp:
		if len(draft.Credential) < minCredentialLen {
			errs = append(errs, FieldError{
				Field:   "password",
				Message: fmt.Sprintf("Password must be at least %d characters.", minCredentialLen),
			})
		}
		if !draft.TermsAccepted {
			errs = append(errs, FieldError{Field: "terms", Message: "You must accept the terms of service."})
		}

	default:
		errs = append(errs, FieldError{Field: "step", Message: "Unknown wizard step."})
	}

	return ValidationResult{OK: len(errs) == 0, Errors: errs}
}

func validateContact(c Contact, policy Policy, now time.Time) []FieldError {
	var errs []FieldError

	required := []struct {
		field string
		value string
		label string
	}{
		{"contact.username", c.Username, "Username"},
		{"contact.firstName", c.FirstName, "First name"},
		{"contact.lastName", c.LastName, "Last name"},
		{"contact.city", c.City, "City"},
		{"contact.state", c.State, "State"},
		{"contact.zip", c.Zip, "ZIP code"},
		{"contact.email", c.Email, "Email"},
		{"contact.phone", c.Phone, "Phone number"},
		{"contact.dateOfBirth", c.DateOfBirth, "Date of birth"},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, FieldError{Field: r.field, Message: r.label + " is required."})
		}
	}

	if c.Username != "" && len(c.Username) < minUsernameLen {
		errs = append(errs, FieldError{
			Field:   "contact.username",
			Message: fmt.Sprintf("Username must be at least %d characters.", minUsernameLen),
		})
	}
	if c.Email != "" {
		if err := fieldValidator.Var(c.Email, "email"); err != nil {
			errs = append(errs, FieldError{Field: "contact.email", Message: "Invalid email address."})
		}
	}
	if c.Zip != "" && len(c.Zip) < minZipLen {
		errs = append(errs, FieldError{
			Field:   "contact.zip",
			Message: fmt.Sprintf("ZIP code must be at least %d digits.", minZipLen),
		})
	}
	if c.Phone != "" && digitCount(c.Phone) < minPhoneDigits {
		errs = append(errs, FieldError{
			Field:   "contact.phone",
			Message: fmt.Sprintf("Phone number must be at least %d digits.", minPhoneDigits),
		})
	}

	if c.DateOfBirth != "" {
		birth, err := time.Parse(dateOfBirthLayout, c.DateOfBirth)
		if err != nil {
			errs = append(errs, FieldError{Field: "contact.dateOfBirth", Message: "Date of birth must be in YYYY-MM-DD format."})
		} else if ageAt(birth, now) < policy.MinAge {
			errs = append(errs, FieldError{
				Field:   "contact.dateOfBirth",
				Message: fmt.Sprintf("You must be at least %d years old.", policy.MinAge),
			})
		}
	}

	return errs
}

// ageAt computes calendar-precise age: the year difference, decremented when
// today's month/day precedes the birth month/day.
func ageAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// fieldErrorMap flattens field errors for the validation error envelope.
func fieldErrorMap(errs []FieldError) map[string]string {
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		m[e.Field] = e.Message
	}
	return m
}
