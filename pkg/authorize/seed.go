package authorize

import (
	"context"
	"log/slog"
)

// DefaultPolicies is the baseline permission set, all in the sys domain.
func DefaultPolicies() []PermissionPolicy {
	allow := func(role Role, object Resource, action Action) PermissionPolicy {
		return PermissionPolicy{Subject: role, Domain: DomainSys, Object: object, Action: action, Effect: EffectAllow}
	}
	return []PermissionPolicy{
		allow(RoleSysSuperAdmin, WildcardResource, WildcardAction),

		// Admin: catalog, questionnaires, coupons and reviews
		allow(RoleSysAdmin, ResourceQuestionnaire, ActionManage),
		allow(RoleSysAdmin, ResourceQuestion, ActionManage),
		allow(RoleSysAdmin, ResourceEvaluation, ActionManage),
		allow(RoleSysAdmin, ResourceCoupon, ActionManage),
		allow(RoleSysAdmin, ResourceProduct, ActionManage),
		allow(RoleSysAdmin, ResourceQuizResponse, ActionRead),
		allow(RoleSysAdmin, ResourceUser, ActionRead),
		allow(RoleSysAdmin, ResourceAudit, ActionRead),

		// Clinician: reads questionnaires, reviews evaluations
		allow(RoleSysClinician, ResourceEvaluation, ActionList),
		allow(RoleSysClinician, ResourceEvaluation, ActionRead),
		allow(RoleSysClinician, ResourceEvaluation, ActionReview),
		allow(RoleSysClinician, ResourceQuestionnaire, ActionRead),
		allow(RoleSysClinician, ResourceQuestion, ActionRead),
		allow(RoleSysClinician, ResourceQuizResponse, ActionRead),
		allow(RoleSysClinician, ResourceUser, ActionRead),

		// Patient: own quiz, evaluations and checkout
		allow(RoleSysPatient, ResourceQuestionnaire, ActionRead),
		allow(RoleSysPatient, ResourceQuizResponse, ActionCreate),
		allow(RoleSysPatient, ResourceQuizResponse, ActionRead),
		allow(RoleSysPatient, ResourceQuizSession, ActionExecute),
		allow(RoleSysPatient, ResourceEvaluation, ActionRead),
		allow(RoleSysPatient, ResourceCheckout, ActionExecute),
		allow(RoleSysPatient, ResourceProduct, ActionRead),
	}
}

// SeedDefaultPolicies sets up the baseline RBAC policies for the system.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	policies := DefaultPolicies()
	for _, p := range policies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			slog.ErrorContext(ctx, "failed to add policy", "policy", p, "err", err)
			return err
		}
		if added {
			slog.DebugContext(ctx, "added policy", "role", p.Subject, "resource", p.Object, "action", p.Action)
		}
	}

	slog.InfoContext(ctx, "seeded default RBAC policies", "count", len(policies))
	return nil
}

// AssignUserSelfRole assigns the user:self role in the user's private domain.
func AssignUserSelfRole(ctx context.Context, auth IAuthorization, userID string) error {
	_, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), RoleUserSelf, UserDomain(userID))
	return err
}

// AssignSystemRole assigns a sys-domain role to a user.
func AssignSystemRole(ctx context.Context, auth IAuthorization, userID string, role Role) error {
	switch role {
	case RoleSysSuperAdmin, RoleSysAdmin, RoleSysClinician, RoleSysPatient:
	default:
		return ErrInvalidArgs
	}

	_, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), role, DomainSys)
	return err
}

// RemoveSystemRole removes a system-level role from a user.
func RemoveSystemRole(ctx context.Context, auth IAuthorization, userID string, role Role) error {
	_, err := auth.RemoveRoleForUserInDomain(ctx, GroupSubject(userID), role, DomainSys)
	return err
}
