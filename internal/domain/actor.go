package domain

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProducer Role = "producer"
	RoleBuyer    Role = "buyer"
)

// Actor is the explicit caller identity threaded through every operation.
// The core never reads ambient session state.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
