package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
)

// Role values stored in users.role
const (
	RoleCandidate = "candidate"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// Actor is the authenticated caller as seen by the use cases.
// Role gating happens in the handlers, ownership checks use the ID and Email.
type Actor struct {
	UserID string
	Email  string
	Role   string
}
