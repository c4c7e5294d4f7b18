// Package policy decides whether a caller may act on a registration.
//
// Callers are identified by the trusted identity the gateway forwards. The
// policy never fails: it returns a Decision, and callers translate Deny into
// their own authorization error.
package policy

import "strings"

// DefaultAdminRole is the role token that grants unconditional access.
const DefaultAdminRole = "ADMIN"

type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

func (d Decision) Allowed() bool { return bool(d) }

func (d Decision) String() string {
	if d {
		return "ALLOW"
	}
	return "DENY"
}

// Roles is a set of normalized role tokens.
type Roles map[string]struct{}

// NewRoles builds a role set from already separated tokens.
func NewRoles(tokens ...string) Roles {
	roles := make(Roles, len(tokens))
	for _, t := range tokens {
		if n := normalizeRole(t); n != "" {
			roles[n] = struct{}{}
		}
	}
	return roles
}

// ParseRoles turns the raw role header value into a role set. Tokens may be
// separated by commas, whitespace or semicolons and wrapped in brackets, e.g.
// "ADMIN,USER", "[ROLE_ADMIN, ROLE_USER]". Malformed input yields no roles.
func ParseRoles(raw string) Roles {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\t', '\n', '[', ']', '"', '\'':
			return true
		}
		return false
	})
	return NewRoles(fields...)
}

// Has reports whether the set contains role.
func (r Roles) Has(role string) bool {
	_, ok := r[normalizeRole(role)]
	return ok
}

// Slice returns the role tokens in no particular order.
func (r Roles) Slice() []string {
	out := make([]string, 0, len(r))
	for role := range r {
		out = append(out, role)
	}
	return out
}

func normalizeRole(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "ROLE_")
}

// Requester is the caller identity forwarded by the gateway.
type Requester struct {
	ID    string
	Roles Roles
}

// Policy holds the administrator marker. The zero value uses DefaultAdminRole.
type Policy struct {
	adminRole string
}

func New(adminRole string) Policy {
	return Policy{adminRole: adminRole}
}

func (p Policy) admin() string {
	if strings.TrimSpace(p.adminRole) == "" {
		return DefaultAdminRole
	}
	return p.adminRole
}

// IsAdmin reports whether roles contains the administrator role.
func (p Policy) IsAdmin(roles Roles) bool {
	return roles.Has(p.admin())
}

// Decide allows administrators unconditionally and otherwise only the owner.
// An empty requester id never matches an owner.
func (p Policy) Decide(requesterID string, roles Roles, ownerID string) Decision {
	if p.IsAdmin(roles) {
		return Allow
	}
	if requesterID != "" && requesterID == ownerID {
		return Allow
	}
	return Deny
}

// RequireAdmin allows only administrators.
func (p Policy) RequireAdmin(roles Roles) Decision {
	return Decision(p.IsAdmin(roles))
}
