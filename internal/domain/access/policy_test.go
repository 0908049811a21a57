package access

import (
	"testing"

	"invoice-portal/internal/domain/billing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize_AllCombinations(t *testing.T) {
	inv := &billing.Invoice{ID: "inv-1", UserID: "u1"}

	ids := []string{"u1", "u2", ""}
	roles := []Role{RoleUser, RoleAdmin, Role("")}

	for _, id := range ids {
		for _, role := range roles {
			who := Identity{ID: id, Role: role}
			want := Deny
			if (id != "" && id == inv.UserID) || role == RoleAdmin {
				want = Allow
			}
			assert.Equal(t, want, Authorize(who, inv), "id=%q role=%q", id, role)
		}
	}
}

func TestAuthorize_OwnerOrAdmin(t *testing.T) {
	inv := &billing.Invoice{ID: "INV-001", UserID: "U1"}

	assert.Equal(t, Allow, Authorize(Identity{ID: "U1", Role: RoleUser}, inv))
	assert.Equal(t, Deny, Authorize(Identity{ID: "U2", Role: RoleUser}, inv))
	assert.Equal(t, Allow, Authorize(Identity{ID: "A1", Role: RoleAdmin}, inv))
}

func TestAuthorize_NilInvoice(t *testing.T) {
	assert.Equal(t, Deny, Authorize(Identity{ID: "A1", Role: RoleAdmin}, nil))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleUser, ParseRole("USER"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("superuser"))
}
