package authorize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	casbin "github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// createTestEnforcer creates a file-backed Casbin enforcer on DefaultModel.
func createTestEnforcer(t *testing.T) *casbin.DistributedEnforcer {
	t.Helper()

	tmpDir := t.TempDir()

	modelPath := filepath.Join(tmpDir, "model.conf")
	if err := os.WriteFile(modelPath, []byte(DefaultModel), 0644); err != nil {
		t.Fatalf("failed to write model file: %v", err)
	}

	policyPath := filepath.Join(tmpDir, "policy.csv")
	if err := os.WriteFile(policyPath, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}

	e, err := casbin.NewDistributedEnforcer(modelPath, fileadapter.NewAdapter(policyPath))
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}

	e.EnableAutoSave(false)
	e.EnableEnforce(true)

	return e
}

func newTestAuth(t *testing.T, bypass bool) IAuthorization {
	t.Helper()
	auth, err := NewAuthorization(createTestEnforcer(t), Config{SuperadminBypass: bypass})
	if err != nil {
		t.Fatalf("NewAuthorization: %v", err)
	}
	return auth
}

func TestNewAuthorization(t *testing.T) {
	t.Run("returns error for nil enforcer", func(t *testing.T) {
		_, err := NewAuthorization(nil, DefaultConfig())
		if !errors.Is(err, ErrInvalidArgs) {
			t.Errorf("expected ErrInvalidArgs, got %v", err)
		}
	})

	t.Run("succeeds with valid enforcer", func(t *testing.T) {
		if auth := newTestAuth(t, true); auth == nil {
			t.Error("expected non-nil authorization")
		}
	})
}

func TestEnforceDefaultPolicies(t *testing.T) {
	auth := newTestAuth(t, true)
	ctx := context.Background()

	if err := SeedDefaultPolicies(ctx, auth); err != nil {
		t.Fatalf("seed: %v", err)
	}

	const (
		patient   = GroupSubject("patient-1")
		clinician = GroupSubject("clinician-1")
		admin     = GroupSubject("admin-1")
	)
	for sub, role := range map[GroupSubject]Role{patient: RoleSysPatient, clinician: RoleSysClinician, admin: RoleSysAdmin} {
		if err := AssignSystemRole(ctx, auth, string(sub), role); err != nil {
			t.Fatalf("assign %s: %v", role, err)
		}
	}

	tests := []struct {
		name     string
		subject  GroupSubject
		domain   Domain
		resource Resource
		action   Action
		want     bool
		wantErr  bool
	}{
		{"patient submits quiz", patient, DomainSys, ResourceQuizResponse, ActionCreate, true, false},
		{"patient pays", patient, DomainSys, ResourceCheckout, ActionExecute, true, false},
		{"patient cannot review", patient, DomainSys, ResourceEvaluation, ActionReview, false, false},
		{"patient cannot manage coupons", patient, DomainSys, ResourceCoupon, ActionCreate, false, false},
		{"clinician reviews", clinician, DomainSys, ResourceEvaluation, ActionReview, true, false},
		{"clinician cannot edit questions", clinician, DomainSys, ResourceQuestion, ActionUpdate, false, false},
		{"admin manage covers delete", admin, DomainSys, ResourceCoupon, ActionDelete, true, false},
		{"admin manage covers review", admin, DomainSys, ResourceEvaluation, ActionReview, true, false},
		{"admin cannot grant", admin, DomainSys, ResourceRBAC, ActionGrant, false, false},
		{"unknown user", GroupSubject("nobody"), DomainSys, ResourceProduct, ActionRead, false, false},
		{"error for empty subject", "", DomainSys, ResourceProduct, ActionRead, false, true},
		{"error for invalid domain", admin, Domain("invalid"), ResourceProduct, ActionRead, false, true},
		{"error for unknown resource", admin, DomainSys, Resource("unknown"), ActionRead, false, true},
		{"error for unknown action", admin, DomainSys, ResourceProduct, Action("unknown"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.Enforce(ctx, tt.subject, tt.domain, tt.resource, tt.action)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustEnforce(t *testing.T) {
	auth := newTestAuth(t, true)
	ctx := context.Background()

	auth.AddRoleForUserInDomain(ctx, "clinician-2", RoleSysClinician, DomainSys)
	auth.AddPermission(ctx, RoleSysClinician, DomainSys, ResourceEvaluation, ActionReview, EffectAllow)

	if err := auth.MustEnforce(ctx, "clinician-2", DomainSys, ResourceEvaluation, ActionReview); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := auth.MustEnforce(ctx, "clinician-2", DomainSys, ResourceCoupon, ActionDelete); err != ErrForbidden {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestSuperAdminBypass(t *testing.T) {
	ctx := context.Background()

	for _, bypass := range []bool{true, false} {
		auth := newTestAuth(t, bypass)
		if _, err := auth.AddRoleForUserInDomain(ctx, "root", RoleSysSuperAdmin, DomainSys); err != nil {
			t.Fatalf("add superadmin role: %v", err)
		}

		// no policies seeded: only the bypass can allow this
		allowed, err := auth.Enforce(ctx, "root", DomainSys, ResourceProduct, ActionDelete)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if allowed != bypass {
			t.Errorf("bypass=%v: allowed = %v", bypass, allowed)
		}
	}
}

func TestRoleManagement(t *testing.T) {
	auth := newTestAuth(t, true)
	ctx := context.Background()
	userID := "user-789"

	if err := AssignSystemRole(ctx, auth, userID, RoleSysClinician); err != nil {
		t.Fatalf("assign: %v", err)
	}
	roles, err := auth.GetRolesForUserInDomain(ctx, GroupSubject(userID), DomainSys)
	if err != nil {
		t.Fatalf("get roles: %v", err)
	}
	if len(roles) != 1 || roles[0] != RoleSysClinician {
		t.Errorf("roles = %v, want [%s]", roles, RoleSysClinician)
	}

	if err := RemoveSystemRole(ctx, auth, userID, RoleSysClinician); err != nil {
		t.Errorf("remove: %v", err)
	}
	roles, _ = auth.GetRolesForUserInDomain(ctx, GroupSubject(userID), DomainSys)
	if len(roles) != 0 {
		t.Errorf("expected 0 roles after removal, got %d", len(roles))
	}

	if err := AssignSystemRole(ctx, auth, userID, RoleUserSelf); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("expected ErrInvalidArgs for non-sys role, got %v", err)
	}
	if _, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), Role("invalid-role"), DomainSys); err == nil {
		t.Error("expected error for invalid role")
	}
}

func TestPermissionManagement(t *testing.T) {
	auth := newTestAuth(t, true)
	ctx := context.Background()

	added, err := auth.AddPermission(ctx, RoleSysPatient, DomainSys, ResourceProduct, ActionRead, EffectAllow)
	if err != nil || !added {
		t.Errorf("add permission: added=%v err=%v", added, err)
	}
	removed, err := auth.RemovePermission(ctx, RoleSysPatient, DomainSys, ResourceProduct, ActionRead, EffectAllow)
	if err != nil || !removed {
		t.Errorf("remove permission: removed=%v err=%v", removed, err)
	}

	if _, err := auth.AddPermission(ctx, RoleSysAdmin, DomainSys, ResourceUser, ActionRead, PolicyEffect("invalid")); err == nil {
		t.Error("expected error for invalid effect")
	}
}

func TestLoadModelFallsBackToDefault(t *testing.T) {
	m, err := LoadModel(filepath.Join(t.TempDir(), "missing.conf"))
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if _, ok := m["m"]; !ok {
		t.Error("expected matcher section in default model")
	}
}
