// Package access decides whether a user may perform an operation on a
// functional module. Decisions are pure predicates over a resolved
// permission set; fetching that set from storage is the caller's job.
package access

// Grant is one capability a role holds: a module paired with an operation,
// e.g. {"Patient Management", "Read"}. Grants arrive already flattened from
// the role_permissions/module_operations join.
type Grant struct {
	Module    string `json:"module" db:"module"`
	Operation string `json:"operation" db:"operation"`
}

// PermissionSet is the full set of grants resolved for a user's role.
type PermissionSet []Grant

// Requirement declares what a route or action demands. A route is reachable
// without any grant only when Public is set explicitly; leaving Modules and
// Operations empty without Public denies, so a misconfigured route entry
// cannot silently become world-readable.
type Requirement struct {
	Public     bool
	Modules    []string
	Operations []string
}

// PublicRoute is the requirement for routes exempt from permission checks.
var PublicRoute = Requirement{Public: true}

// Require builds a single-module, single-operation requirement. Most routes
// need exactly one capability.
func Require(module, operation string) Requirement {
	return Requirement{
		Modules:    []string{module},
		Operations: []string{operation},
	}
}

// RequireAny builds a requirement satisfied by any combination of the given
// modules and operations.
func RequireAny(modules, operations []string) Requirement {
	return Requirement{Modules: modules, Operations: operations}
}

// Resolver evaluates access decisions. BypassUserType names the user type
// that skips all checks (typically "super_admin"); it is configuration so
// deployments and tests can rename it.
type Resolver struct {
	BypassUserType string
}

func NewResolver(bypassUserType string) *Resolver {
	return &Resolver{BypassUserType: bypassUserType}
}

// Resolve reports whether a user of the given type, holding the given
// grants, satisfies the requirement.
//
// Evaluation order: missing user type always denies; the bypass user type
// always allows; explicitly public requirements always allow; otherwise the
// requirement is satisfied iff some (module, operation) combination from the
// declared lists matches some grant exactly. A grant matches only when both
// its module and its operation line up, so holding "Patient Management/Read"
// and "Appointment/Create" never yields "Patient Management/Create".
func (r *Resolver) Resolve(userType string, grants PermissionSet, req Requirement) bool {
	if userType == "" {
		return false
	}
	if userType == r.BypassUserType {
		return true
	}
	if req.Public {
		return true
	}
	if len(req.Modules) == 0 || len(req.Operations) == 0 {
		return false
	}

	for _, m := range req.Modules {
		for _, o := range req.Operations {
			if grants.Holds(m, o) {
				return true
			}
		}
	}
	return false
}

// Holds reports whether the set contains the exact (module, operation) pair.
func (p PermissionSet) Holds(module, operation string) bool {
	for _, g := range p {
		if g.Module == module && g.Operation == operation {
			return true
		}
	}
	return false
}
