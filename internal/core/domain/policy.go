package domain

// Permission names a single guarded operation.
type Permission string

const (
	PermDealCreate  Permission = "deal:create"
	PermDealRead    Permission = "deal:read"
	PermDealUpdate  Permission = "deal:update"
	PermStageUpdate Permission = "deal:update_stage"
	PermNoteAdd     Permission = "deal:add_note"
	PermValueUpdate Permission = "deal:update_value"
	PermDealDelete  Permission = "deal:delete"
	PermUserManage  Permission = "user:manage"
	PermProfileRead Permission = "profile:read"
)

// userPermissions is the base grant shared by every authenticated role.
var userPermissions = []Permission{
	PermDealCreate,
	PermDealRead,
	PermDealUpdate,
	PermStageUpdate,
	PermNoteAdd,
	PermProfileRead,
}

// adminPermissions extends the base grant with the sensitive operations.
var adminPermissions = append([]Permission{
	PermValueUpdate,
	PermDealDelete,
	PermUserManage,
}, userPermissions...)

var policy = map[string]map[Permission]struct{}{
	RoleUser:  permSet(userPermissions),
	RoleAdmin: permSet(adminPermissions),
}

func permSet(perms []Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Allowed reports whether role may perform p. Unknown roles are denied
// everything.
func Allowed(role string, p Permission) bool {
	grants, ok := policy[role]
	if !ok {
		return false
	}
	_, ok = grants[p]
	return ok
}
