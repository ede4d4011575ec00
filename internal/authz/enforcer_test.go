// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package authz

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/streamai/internal/config"
	"github.com/tomtom215/streamai/internal/metrics"
)

func newTestEnforcer(t *testing.T, cfg *EnforcerConfig) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(cfg)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEmbeddedPolicy(t *testing.T) {
	e := newTestEnforcer(t, nil)

	tests := []struct {
		name    string
		subject string
		roles   []string
		object  string
		action  string
		want    bool
	}{
		{"user plays", "u-1", []string{"user"}, ObjectStream, ActionPlay, true},
		{"uppercase role from token", "u-1", []string{"USER"}, ObjectStream, ActionPlay, true},
		{"admin inherits play", "a-1", []string{"admin"}, ObjectStream, ActionPlay, true},
		{"admin reads audit", "a-1", []string{"admin"}, ObjectAudit, ActionRead, true},
		{"user cannot read audit", "u-1", []string{"user"}, ObjectAudit, ActionRead, false},
		{"no role cannot play", "u-2", nil, ObjectStream, ActionPlay, false},
		{"unknown role cannot play", "u-3", []string{"guest"}, ObjectStream, ActionPlay, false},
		{"unknown action", "u-1", []string{"user"}, ObjectStream, "download", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.EnforceWithRoles(tt.subject, tt.roles, tt.object, tt.action)
			if err != nil {
				t.Fatalf("EnforceWithRoles() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EnforceWithRoles(%s, %v, %s, %s) = %v, want %v",
					tt.subject, tt.roles, tt.object, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforceWithRoles_SubjectGrant(t *testing.T) {
	e := newTestEnforcer(t, nil)

	if ok, _ := e.EnforceWithRoles("reviewer-7", nil, ObjectAudit, ActionRead); ok {
		t.Fatal("reviewer should start without audit access")
	}
	if _, err := e.AddPolicy("reviewer-7", ObjectAudit, ActionRead); err != nil {
		t.Fatalf("AddPolicy: %v", err)
	}
	if ok, _ := e.EnforceWithRoles("reviewer-7", nil, ObjectAudit, ActionRead); !ok {
		t.Error("AddPolicy should invalidate the cached deny")
	}

	if _, err := e.RemovePolicy("reviewer-7", ObjectAudit, ActionRead); err != nil {
		t.Fatalf("RemovePolicy: %v", err)
	}
	if ok, _ := e.EnforceWithRoles("reviewer-7", nil, ObjectAudit, ActionRead); ok {
		t.Error("RemovePolicy should invalidate the cached allow")
	}

	if _, err := e.AddRoleForUser("reviewer-7", "admin"); err != nil {
		t.Fatalf("AddRoleForUser: %v", err)
	}
	if ok, _ := e.EnforceWithRoles("reviewer-7", nil, ObjectAudit, ActionRead); !ok {
		t.Error("role assignment by subject id should grant access")
	}
}

func TestEnforceWithRoles_Metrics(t *testing.T) {
	e := newTestEnforcer(t, nil)
	denied := metrics.AuthzDecisions.WithLabelValues(ObjectAudit, ActionRead, "deny")
	before := testutil.ToFloat64(denied)

	_, _ = e.EnforceWithRoles("u-1", []string{"user"}, ObjectAudit, ActionRead)

	if got := testutil.ToFloat64(denied) - before; got != 1 {
		t.Errorf("deny decisions recorded = %v, want 1", got)
	}
}

func TestNewEnforcer_FilePolicy(t *testing.T) {
	dir := t.TempDir()
	policyPath := filepath.Join(dir, "policy.csv")
	policy := "p, user, stream, play\np, premium, stream, play\n"
	if err := os.WriteFile(policyPath, []byte(policy), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := EnforcerConfigFrom(config.CasbinConfig{PolicyPath: policyPath, CacheEnabled: false})
	cfg.ReloadInterval = 0
	e := newTestEnforcer(t, cfg)

	if ok, _ := e.EnforceWithRoles("u-1", []string{"premium"}, ObjectStream, ActionPlay); !ok {
		t.Error("premium should play under the file policy")
	}
	if ok, _ := e.EnforceWithRoles("a-1", []string{"admin"}, ObjectAudit, ActionRead); ok {
		t.Error("file policy replaces the embedded one entirely")
	}

	if err := os.WriteFile(policyPath, []byte("p, user, stream, play\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := e.LoadPolicy(); err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if ok, _ := e.EnforceWithRoles("u-1", []string{"premium"}, ObjectStream, ActionPlay); ok {
		t.Error("reloaded policy should drop premium")
	}
}

func TestNewEnforcer_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")
	if _, err := NewEnforcer(&EnforcerConfig{PolicyPath: missing}); err == nil {
		t.Error("missing policy file should be an error")
	}
	if _, err := NewEnforcer(&EnforcerConfig{ModelPath: missing}); err == nil {
		t.Error("missing model file should be an error")
	}

	e := newTestEnforcer(t, nil)
	if err := e.LoadPolicy(); err != ErrNoAdapter {
		t.Errorf("LoadPolicy() on embedded policy = %v, want ErrNoAdapter", err)
	}
}

func TestEnforcerConfigFrom(t *testing.T) {
	cfg := EnforcerConfigFrom(config.CasbinConfig{CacheEnabled: true, CacheTTL: time.Minute})
	if !cfg.CacheEnabled || cfg.CacheTTL != time.Minute {
		t.Errorf("cache settings = %v, %v", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.ReloadInterval != 0 {
		t.Errorf("ReloadInterval = %v, want 0 without a policy file", cfg.ReloadInterval)
	}
}

func TestLoadEmbeddedPolicy_Malformed(t *testing.T) {
	e := newTestEnforcer(t, &EnforcerConfig{})
	for _, policy := range []string{"p, user", "x, a, b, c"} {
		if err := loadEmbeddedPolicy(e.enforcer, policy); err == nil {
			t.Errorf("loadEmbeddedPolicy(%q) accepted a malformed line", policy)
		}
	}
}
