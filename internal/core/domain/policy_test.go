package domain

import "testing"

func TestAllowed_UserGrants(t *testing.T) {
	allowed := []Permission{
		PermDealCreate,
		PermDealRead,
		PermDealUpdate,
		PermStageUpdate,
		PermNoteAdd,
		PermProfileRead,
	}
	for _, p := range allowed {
		if !Allowed(RoleUser, p) {
			t.Errorf("USER should hold %s", p)
		}
	}

	denied := []Permission{PermValueUpdate, PermDealDelete, PermUserManage}
	for _, p := range denied {
		if Allowed(RoleUser, p) {
			t.Errorf("USER must not hold %s", p)
		}
	}
}

func TestAllowed_AdminHoldsEverything(t *testing.T) {
	all := []Permission{
		PermDealCreate,
		PermDealRead,
		PermDealUpdate,
		PermStageUpdate,
		PermNoteAdd,
		PermValueUpdate,
		PermDealDelete,
		PermUserManage,
		PermProfileRead,
	}
	for _, p := range all {
		if !Allowed(RoleAdmin, p) {
			t.Errorf("ADMIN should hold %s", p)
		}
	}
}

func TestAllowed_UnknownRoleDeniedEverything(t *testing.T) {
	for _, role := range []string{"", "GUEST", "user", "admin"} {
		if Allowed(role, PermDealRead) {
			t.Errorf("role %q must be denied", role)
		}
	}
}

func TestDealStage_Valid(t *testing.T) {
	for _, s := range Stages() {
		if !s.Valid() {
			t.Errorf("stage %s should be valid", s)
		}
	}
	for _, s := range []DealStage{"", "prospect", "Archived", "CLOSED"} {
		if s.Valid() {
			t.Errorf("stage %q should be invalid", s)
		}
	}
}
