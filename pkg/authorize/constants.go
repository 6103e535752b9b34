package authorize

import (
	"fmt"
	"regexp"
)

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Power actions
	ActionManage  Action = "manage"  // CRUD + list
	ActionExecute Action = "execute" // submit, pay, redeem

	// Review actions
	ActionReview Action = "review"

	// RBAC-specific actions
	ActionGrant  Action = "grant"
	ActionRevoke Action = "revoke"
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionManage: {}, ActionExecute: {}, ActionReview: {},
	ActionGrant: {}, ActionRevoke: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	// Identity
	ResourceUser        Resource = "user"
	ResourceAuthSession Resource = "auth_session"

	// Questionnaire engine
	ResourceQuestionnaire Resource = "questionnaire"
	ResourceQuestion      Resource = "question"
	ResourceQuizResponse  Resource = "quiz_response"
	ResourceQuizSession   Resource = "quiz_session"

	// Clinical review
	ResourceEvaluation Resource = "evaluation"

	// Commerce
	ResourceCoupon   Resource = "coupon"
	ResourceProduct  Resource = "product"
	ResourceCheckout Resource = "checkout"

	// System / platform admin
	ResourceSystem Resource = "system"
	ResourceAudit  Resource = "audit"
	ResourceRBAC   Resource = "rbac"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser: {}, ResourceAuthSession: {},
	ResourceQuestionnaire: {}, ResourceQuestion: {}, ResourceQuizResponse: {}, ResourceQuizSession: {},
	ResourceEvaluation: {},
	ResourceCoupon:     {}, ResourceProduct: {}, ResourceCheckout: {},
	ResourceSystem: {}, ResourceAudit: {}, ResourceRBAC: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// These are the "policy subjects" we assign to users via grouping policies.

const (
	WildcardRole Role = "*"

	// Platform roles (domain = sys)
	RoleSysSuperAdmin Role = "role:sys:superadmin"
	RoleSysAdmin      Role = "role:sys:admin"
	RoleSysClinician  Role = "role:sys:clinician"
	RoleSysPatient    Role = "role:sys:patient"

	// Private user scope (domain = user:<uuid>)
	RoleUserSelf Role = "role:user:self"
)

var KnownRoles = map[Role]struct{}{
	RoleSysSuperAdmin: {},
	RoleSysAdmin:      {},
	RoleSysClinician:  {},
	RoleSysPatient:    {},
	RoleUserSelf:      {},
}

// Portuguese display names
var RoleDisplayNamesPT = map[Role]string{
	RoleSysSuperAdmin: "Superadministrador",
	RoleSysAdmin:      "Administrador",
	RoleSysClinician:  "Médico revisor",
	RoleSysPatient:    "Paciente",
	RoleUserSelf:      "Próprio usuário",
}

// RoleAliases are the short names accepted by the CLI.
var RoleAliases = map[string]Role{
	"superadmin": RoleSysSuperAdmin,
	"admin":      RoleSysAdmin,
	"clinician":  RoleSysClinician,
	"patient":    RoleSysPatient,
}

// ParseRole accepts a short alias or a full role name.
func ParseRole(s string) (Role, error) {
	if r, ok := RoleAliases[s]; ok {
		return r, nil
	}
	if _, ok := KnownRoles[Role(s)]; ok {
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role: %q", ErrInvalidArgs, s)
}

// ----------------------------
// Domains
// ----------------------------

const (
	DomainSys Domain = "sys"
)

const (
	DomainPrefixUser Domain = "user:"
)

const (
	WildcardDomain Domain = "*"
)

var (
	reUUID = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)
)

func UserDomain(userID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixUser, userID))
}

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	if d == DomainSys || d == WildcardDomain {
		return true
	}

	s := string(d)
	if len(s) > len(DomainPrefixUser) && s[:len(DomainPrefixUser)] == string(DomainPrefixUser) {
		return reUUID.MatchString(s[len(DomainPrefixUser):])
	}
	return false
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a concrete principal id (user_id or service_id).
type GroupSubject string

// Grouping rows: g, user_id, role, domain
type GroupingPolicy struct {
	Subject GroupSubject
	Role    Role
	Domain  Domain
}

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
