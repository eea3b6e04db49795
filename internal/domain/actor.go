package domain

type Role string

const (
	RoleFarmer   Role = "FARMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
	RoleSystem   Role = "SYSTEM"
)

// Actor is the already-authenticated principal performing an operation.
// Identity resolution happens upstream; the order service only consumes
// the resolved pair.
type Actor struct {
	ID   string
	Role Role
}

var SystemActor = Actor{ID: "system", Role: RoleSystem}

func (a Actor) System() bool {
	return a.Role == RoleSystem
}
