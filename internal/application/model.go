// File: internal/application/model.go
package application

import (
	"time"

	"castlecare_backend/internal/hiring"
)

// Application statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// SubmittedApplication is the durable record created once per external
// identity when the hiring wizard completes.
type SubmittedApplication struct {
	ApplicationID  string         `json:"applicationId"`
	ExternalUserID string         `json:"userId"`
	Account        hiring.Account `json:"account"`
	Contact        hiring.Contact `json:"contact"`
	Roles          hiring.Roles   `json:"roles"`
	Status         string         `json:"status"`
	SubmittedAt    time.Time      `json:"submittedAt"`
}

// SubmitRequest is the body of a direct POST /applications call. The wizard's
// completion path goes through the service directly; this endpoint exists for
// clients that finished sign-up out-of-band and still need to submit.
type SubmitRequest struct {
	Account *hiring.Account `json:"account"`
	Contact *hiring.Contact `json:"contact"`
	Roles   *hiring.Roles   `json:"roles"`
}
