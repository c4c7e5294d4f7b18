package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoles(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		admin bool
		user  bool
	}{
		{"comma separated", "ADMIN,USER", true, true},
		{"spring style list", "[ROLE_ADMIN, ROLE_USER]", true, true},
		{"lower case", "admin", true, false},
		{"user only", "USER", false, true},
		{"empty", "", false, false},
		{"garbage", ",,[]  ;", false, false},
		{"admin substring is not admin", "SUPERADMIN,ADMINISTRATOR", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := ParseRoles(tt.raw)
			assert.Equal(t, tt.admin, roles.Has("ADMIN"))
			assert.Equal(t, tt.user, roles.Has("USER"))
		})
	}
}

func TestDecide(t *testing.T) {
	p := New("")
	admin := ParseRoles("ADMIN")
	user := ParseRoles("USER")

	assert.Equal(t, Allow, p.Decide("u1", user, "u1"), "owner is allowed")
	assert.Equal(t, Deny, p.Decide("u2", user, "u1"), "non-owner is denied")
	assert.Equal(t, Allow, p.Decide("a1", admin, "u1"), "admin is allowed for any owner")
	assert.Equal(t, Deny, p.Decide("u2", nil, "u1"), "nil roles behave as no roles")
	assert.Equal(t, Allow, p.Decide("u1", nil, "u1"), "ownership does not need roles")
	assert.Equal(t, Deny, p.Decide("", nil, ""), "empty identity never owns")
}

func TestRequireAdmin(t *testing.T) {
	p := New("")

	assert.True(t, p.RequireAdmin(ParseRoles("ROLE_ADMIN")).Allowed())
	assert.False(t, p.RequireAdmin(ParseRoles("USER")).Allowed())
	assert.False(t, p.RequireAdmin(nil).Allowed())
}

func TestCustomAdminRole(t *testing.T) {
	p := New("organizer")

	assert.True(t, p.RequireAdmin(ParseRoles("ORGANIZER")).Allowed())
	assert.False(t, p.RequireAdmin(ParseRoles("ADMIN")).Allowed())
	assert.Equal(t, Allow, p.Decide("x", ParseRoles("organizer"), "u1"))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "ALLOW", Allow.String())
	assert.Equal(t, "DENY", Deny.String())
}
