// File: internal/hiring/validator_test.go
package hiring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func validDraft() *ApplicationDraft {
	d := DefaultDraft()
	d.Account.Plan = TierFree
	d.Contact = Contact{
		Username:    "handyman42",
		FirstName:   "Jordan",
		LastName:    "Reyes",
		City:        "Austin",
		State:       "TX",
		Zip:         "78701",
		Email:       "jordan@example.com",
		Phone:       "512-555-0142",
		DateOfBirth: "1990-03-20",
	}
	d.Roles.OnDemand = []OnDemandRole{RoleLawncare}
	d.Credential = "s3cret-passphrase"
	d.TermsAccepted = true
	return d
}

func TestCanAdvancePlanStep(t *testing.T) {
	policy := Policy{MinAge: 18}

	draft := DefaultDraft()
	result := canAdvanceAt(StepPlan, draft, policy, testNow)
	assert.False(t, result.OK, "empty plan must not advance")
	assert.Equal(t, "account.plan", result.Errors[0].Field)

	draft.Account.Plan = TierPreferred
	result = canAdvanceAt(StepPlan, draft, policy, testNow)
	assert.True(t, result.OK)

	draft.Account.Plan = AccountTier("platinum")
	result = canAdvanceAt(StepPlan, draft, policy, testNow)
	assert.False(t, result.OK, "unknown tier must not advance")
}

func TestCanAdvanceContactStep(t *testing.T) {
	policy := Policy{MinAge: 18}

	tests := []struct {
		name      string
		mutate    func(*ApplicationDraft)
		wantOK    bool
		wantField string
	}{
		{
			name:   "complete contact info advances",
			mutate: func(d *ApplicationDraft) {},
			wantOK: true,
		},
		{
			name:      "missing first name",
			mutate:    func(d *ApplicationDraft) { d.Contact.FirstName = "" },
			wantOK:    false,
			wantField: "contact.firstName",
		},
		{
			name:      "username too short",
			mutate:    func(d *ApplicationDraft) { d.Contact.Username = "ab" },
			wantOK:    false,
			wantField: "contact.username",
		},
		{
			name:      "invalid email",
			mutate:    func(d *ApplicationDraft) { d.Contact.Email = "not-an-email" },
			wantOK:    false,
			wantField: "contact.email",
		},
		{
			name:      "zip too short",
			mutate:    func(d *ApplicationDraft) { d.Contact.Zip = "787" },
			wantOK:    false,
			wantField: "contact.zip",
		},
		{
			name:      "phone with too few digits",
			mutate:    func(d *ApplicationDraft) { d.Contact.Phone = "555-0142" },
			wantOK:    false,
			wantField: "contact.phone",
		},
		{
			name:      "unparseable date of birth",
			mutate:    func(d *ApplicationDraft) { d.Contact.DateOfBirth = "03/20/1990" },
			wantOK:    false,
			wantField: "contact.dateOfBirth",
		},
		{
			name: "phone formatting characters do not count as digits",
			mutate: func(d *ApplicationDraft) {
				d.Contact.Phone = "(512) 555-0142"
			},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)

			result := canAdvanceAt(StepContactInfo, draft, policy, testNow)
			assert.Equal(t, tt.wantOK, result.OK)
			if !tt.wantOK {
				fields := make([]string, 0, len(result.Errors))
				for _, e := range result.Errors {
					fields = append(fields, e.Field)
				}
				assert.Contains(t, fields, tt.wantField)
			}
		})
	}
}

func TestCanAdvanceAgeBoundary(t *testing.T) {
	policy := Policy{MinAge: 18}

	tests := []struct {
		name   string
		dob    string
		wantOK bool
	}{
		{"turns 18 today", "2008-06-15", true},
		{"18th birthday tomorrow", "2008-06-16", false},
		{"well over 18", "1990-03-20", true},
		{"17 years and 364 days", "2008-06-16", false},
		{"birthday earlier this year", "2008-01-02", true},
		{"birthday later this year", "2008-12-31", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			draft.Contact.DateOfBirth = tt.dob
			result := canAdvanceAt(StepContactInfo, draft, policy, testNow)
			assert.Equal(t, tt.wantOK, result.OK, "dob=%s now=%s", tt.dob, testNow)
		})
	}
}

func TestCanAdvanceRolesStep(t *testing.T) {
	draft := validDraft()
	draft.Roles = Roles{OnDemand: []OnDemandRole{}, Warehouse: []WarehouseRole{}}

	// Default policy: role selection is optional.
	result := canAdvanceAt(StepRoles, draft, Policy{MinAge: 18}, testNow)
	assert.True(t, result.OK, "empty selection advances when roles are optional")

	// Strict policy: at least one role across either category.
	strict := Policy{MinAge: 18, RequireRoleSelection: true}
	result = canAdvanceAt(StepRoles, draft, strict, testNow)
	assert.False(t, result.OK)

	draft.Roles.Warehouse = []WarehouseRole{RoleElectrical}
	result = canAdvanceAt(StepRoles, draft, strict, testNow)
	assert.True(t, result.OK, "a single warehouse role satisfies the strict policy")
}

func TestCanAdvanceSignUpStep(t *testing.T) {
	policy := Policy{MinAge: 18}

	draft := validDraft()
	result := canAdvanceAt(StepSignUp, draft, policy, testNow)
	assert.True(t, result.OK)

	draft.Credential = "short"
	result = canAdvanceAt(StepSignUp, draft, policy, testNow)
	assert.False(t, result.OK)
	assert.Equal(t, "password", result.Errors[0].Field)

	draft.Credential = "s3cret-passphrase"
	draft.TermsAccepted = false
	result = canAdvanceAt(StepSignUp, draft, policy, testNow)
	assert.False(t, result.OK)
	assert.Equal(t, "terms", result.Errors[0].Field)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "Account Type", StepPlan.String())
	assert.Equal(t, "Sign Up", StepSignUp.String())
	assert.Equal(t, "Submitted", StepSubmitted.String())
	assert.Equal(t, "Unknown", Step(42).String())
}
