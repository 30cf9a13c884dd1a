/*
Package user contains the core data structures for user identity and session.

A Profile is immutable once created; every login produces a new one. The
Plan field communicates provenance rather than entitlement: premium for the
hardcoded demo account, free for a registered mock user, demo for anything
else (including sessions synthesized offline by the client).
*/
package user

// Plan labels where a session came from.
type Plan string

const (
	PlanPremium Plan = "premium"
	PlanFree    Plan = "free"
	PlanDemo    Plan = "demo"
)

// Profile is the identity attached to a session. Field names match the wire
// protocol exactly.
type Profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Plan      Plan   `json:"plan"`
}

// Session pairs an opaque token with the profile it was minted for. Its JSON
// form is the body of every successful auth response.
type Session struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
