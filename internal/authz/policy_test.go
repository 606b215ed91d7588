package authz_test

import (
	"testing"

	"github.com/pdutra/ec2-chatops/internal/authz"
)

func newPolicy() *authz.Policy {
	return authz.NewPolicy(
		[]string{"Admin.User@example.com", " ops@example.com "},
		[]string{"dev-server", "Test-Env"},
	)
}

func TestIsAdmin_CaseInsensitive(t *testing.T) {
	p := newPolicy()

	tests := []struct {
		identity string
		want     bool
	}{
		{"admin.user@example.com", true},
		{"ADMIN.USER@EXAMPLE.COM", true},
		{"ops@example.com", true},
		{"someone@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := p.IsAdmin(tt.identity); got != tt.want {
			t.Errorf("IsAdmin(%q) = %v, want %v", tt.identity, got, tt.want)
		}
	}
}

func TestIsRestricted(t *testing.T) {
	p := newPolicy()

	tests := []struct {
		target string
		want   bool
	}{
		{"dev-server", false},
		{"DEV-SERVER", false},
		{"test-env", false},
		{"prod-db", true},
		// IDs never hit the unrestricted set, even if the underlying
		// instance happens to carry an unrestricted name.
		{"i-0123456789abcdef0", true},
	}
	for _, tt := range tests {
		if got := p.IsRestricted(tt.target); got != tt.want {
			t.Errorf("IsRestricted(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestCanExecute(t *testing.T) {
	p := newPolicy()

	if !p.CanExecute("admin.user@example.com", "prod-db") {
		t.Error("admin should execute on restricted targets")
	}
	if !p.CanExecute("someone@example.com", "dev-server") {
		t.Error("ordinary identity should execute on unrestricted names")
	}
	if p.CanExecute("someone@example.com", "prod-db") {
		t.Error("ordinary identity must not execute on restricted names")
	}
	if p.CanExecute("someone@example.com", "i-0abc") {
		t.Error("ordinary identity must not execute on ID-addressed targets")
	}
}

func TestCanDelete_AdminOnly(t *testing.T) {
	p := newPolicy()

	if !p.CanDelete("admin.user@example.com") {
		t.Error("admin should be able to delete")
	}
	if p.CanDelete("someone@example.com") {
		t.Error("ordinary identity must not delete")
	}
}
