// Package authz decides who may do what. Two tiers only: identities on
// the admin allow-list, and everyone else.
package authz

import (
	"strings"

	"github.com/pdutra/ec2-chatops/internal/domain"
)

type Policy struct {
	admins       map[string]struct{}
	unrestricted map[string]struct{}
}

// NewPolicy builds a policy from the configured admin identities and
// unrestricted instance names. Both sets are normalized (trimmed,
// lower-cased) so decisions are deterministic and case-insensitive.
func NewPolicy(adminEmails, unrestrictedNames []string) *Policy {
	p := &Policy{
		admins:       make(map[string]struct{}, len(adminEmails)),
		unrestricted: make(map[string]struct{}, len(unrestrictedNames)),
	}
	for _, email := range adminEmails {
		if email = normalize(email); email != "" {
			p.admins[email] = struct{}{}
		}
	}
	for _, name := range unrestrictedNames {
		if name = normalize(name); name != "" {
			p.unrestricted[name] = struct{}{}
		}
	}
	return p
}

func (p *Policy) IsAdmin(identity string) bool {
	_, ok := p.admins[normalize(identity)]
	return ok
}

// IsRestricted reports whether start/stop on target needs admin rights.
// Targets addressed by literal instance ID are always restricted: the
// unrestricted set holds names, and an ID tells us nothing about the name
// without a lookup, so the conservative answer wins.
func (p *Policy) IsRestricted(target string) bool {
	if domain.IsInstanceID(target) {
		return true
	}
	_, ok := p.unrestricted[normalize(target)]
	return !ok
}

// CanExecute reports whether identity may run a lifecycle action against
// target directly. Status display is open to everyone and never reaches
// this check; start/stop needs either admin rights or an unrestricted
// target. A denied start/stop is not an error: the caller converts it
// into an approval request.
func (p *Policy) CanExecute(identity, target string) bool {
	if p.IsAdmin(identity) {
		return true
	}
	return !p.IsRestricted(target)
}

// CanDelete reports whether identity may delete a schedule. Admin only,
// regardless of who created the record.
func (p *Policy) CanDelete(identity string) bool {
	return p.IsAdmin(identity)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
