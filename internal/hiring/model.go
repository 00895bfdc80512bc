// File: internal/hiring/model.go
package hiring

// AccountTier is the service level chosen on the first wizard step.
type AccountTier string

const (
	TierFree      AccountTier = "free"
	TierPreferred AccountTier = "preferred"
)

// OnDemandRole is a role served directly at customer properties.
type OnDemandRole string

const (
	RoleLawncare OnDemandRole = "lawncare"
	RoleLaundry  OnDemandRole = "laundry"
	RoleLighting OnDemandRole = "lighting"
)

// WarehouseRole is a role served out of a CastleCare warehouse.
type WarehouseRole string

const (
	RolePlumbing   WarehouseRole = "plumbing"
	RoleElectrical WarehouseRole = "electrical"
	RoleCarpentry  WarehouseRole = "carpentry"
	RoleGeneral    WarehouseRole = "general"
)

// Step indexes the ordered wizard pages.
type Step int

const (
	StepPlan Step = iota
	StepContactInfo
	StepRoles
	StepSignUp

	// StepSubmitted is the terminal state reached after a completed handoff.
	StepSubmitted
)

// stepNames order must match the Step constants.
var stepNames = []string{"Account Type", "Contact Info", "Roles", "Sign Up", "Submitted"}

func (s Step) String() string {
	if s < StepPlan || int(s) >= len(stepNames) {
		return "Unknown"
	}
	return stepNames[s]
}

// LastStep is the final interactive step; advancing from it triggers the
// identity handoff rather than a step increment.
const LastStep = StepSignUp

// Account holds the chosen plan.
type Account struct {
	Plan AccountTier `json:"plan"`
}

// Contact holds the applicant's contact information. All fields are required
// before the ContactInfo step may advance.
type Contact struct {
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
}

// Roles holds the role selections across both categories. Either or both
// sets may be empty unless the role-selection policy requires otherwise.
type Roles struct {
	OnDemand  []OnDemandRole  `json:"onDemand"`
	Warehouse []WarehouseRole `json:"warehouse"`
}

// ApplicationDraft is the in-progress, not-yet-submitted application.
// The credential and terms flag are handed through on the final step only
// and are deliberately excluded from serialization: they must never land
// in the draft store.
type ApplicationDraft struct {
	Account Account `json:"account"`
	Contact Contact `json:"contact"`
	Roles   Roles   `json:"roles"`

	Credential    string `json:"-"`
	TermsAccepted bool   `json:"-"`
}

// DefaultDraft returns the zero-value draft a new or unreadable session
// starts from. Role slices are initialized so the persisted form always
// round-trips as arrays, never null.
func DefaultDraft() *ApplicationDraft {
	return &ApplicationDraft{
		Roles: Roles{
			OnDemand:  []OnDemandRole{},
			Warehouse: []WarehouseRole{},
		},
	}
}

// FieldError is a field-scoped validation failure, recoverable by user correction.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// --- Partial update inputs ---

// AccountUpdate replaces only the account sub-object fields that are set.
type AccountUpdate struct {
	Plan *AccountTier `json:"plan" binding:"omitempty,oneof=free preferred"`
}

// ContactUpdate replaces only the contact fields that are set; nil fields
// retain their prior values.
type ContactUpdate struct {
	Username    *string `json:"username" binding:"omitempty,max=100"`
	FirstName   *string `json:"firstName" binding:"omitempty,max=100"`
	LastName    *string `json:"lastName" binding:"omitempty,max=100"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	State       *string `json:"state" binding:"omitempty,max=50"`
	Zip         *string `json:"zip" binding:"omitempty,max=10"`
	Email       *string `json:"email" binding:"omitempty,max=255"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
}

// RolesUpdate replaces a role category wholesale when set. A present empty
// array clears the category; nil leaves it untouched.
type RolesUpdate struct {
	OnDemand  *[]OnDemandRole  `json:"onDemand" binding:"omitempty,dive,oneof=lawncare laundry lighting"`
	Warehouse *[]WarehouseRole `json:"warehouse" binding:"omitempty,dive,oneof=plumbing electrical carpentry general"`
}

// ApplyAccount merges an account update into the draft.
func (d *ApplicationDraft) ApplyAccount(u AccountUpdate) {
	if u.Plan != nil {
		d.Account.Plan = *u.Plan
	}
}

// ApplyContact merges a contact update into the draft without clobbering
// fields the update does not name.
func (d *ApplicationDraft) ApplyContact(u ContactUpdate) {
	if u.Username != nil {
		d.Contact.Username = *u.Username
	}
	if u.FirstName != nil {
		d.Contact.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		d.Contact.LastName = *u.LastName
	}
	if u.City != nil {
		d.Contact.City = *u.City
	}
	if u.State != nil {
		d.Contact.State = *u.State
	}
	if u.Zip != nil {
		d.Contact.Zip = *u.Zip
	}
	if u.Email != nil {
		d.Contact.Email = *u.Email
	}
	if u.Phone != nil {
		d.Contact.Phone = *u.Phone
	}
	if u.DateOfBirth != nil {
		d.Contact.DateOfBirth = *u.DateOfBirth
	}
}

// ApplyRoles merges a roles update into the draft.
func (d *ApplicationDraft) ApplyRoles(u RolesUpdate) {
	if u.OnDemand != nil {
		d.Roles.OnDemand = *u.OnDemand
	}
	if u.Warehouse != nil {
		d.Roles.Warehouse = *u.Warehouse
	}
}

// RoleCount returns the number of selected roles across both categories.
func (r Roles) RoleCount() int {
	return len(r.OnDemand) + len(r.Warehouse)
}

// --- API response DTOs ---

// DraftResponse is the wizard state returned to the client.
type DraftResponse struct {
	DraftID  string            `json:"draft_id"`
	Step     Step              `json:"step"`
	StepName string            `json:"step_name"`
	Draft    *ApplicationDraft `json:"draft"`
}
