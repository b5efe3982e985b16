package enums

// Role is a participant's access level on a whiteboard. The zero value is
// invalid on purpose so an unset role never grants anything.
type Role int

const (
	ROLE_NONE Role = iota
	ROLE_READ
	ROLE_EDIT
	ROLE_OWNER
)

func (r Role) String() string {
	switch r {
	case ROLE_READ:
		return "read"
	case ROLE_EDIT:
		return "edit"
	case ROLE_OWNER:
		return "owner"
	default:
		return "none"
	}
}

func ParseRole(value string) (Role, bool) {
	switch value {
	case "read":
		return ROLE_READ, true
	case "edit":
		return ROLE_EDIT, true
	case "owner":
		return ROLE_OWNER, true
	default:
		return ROLE_NONE, false
	}
}

// CanView reports whether the role grants read access.
func (r Role) CanView() bool {
	return r >= ROLE_READ
}

// CanMutate reports whether the role grants content mutation. Owner mutates
// like edit.
func (r Role) CanMutate() bool {
	return r >= ROLE_EDIT
}

// IsOwner reports whether the role grants administrative operations
// (invite, role change, delete, remove participant).
func (r Role) IsOwner() bool {
	return r == ROLE_OWNER
}
