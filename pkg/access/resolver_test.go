package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const bypassType = "super_admin"

func TestResolveSuperAdminBypassesEverything(t *testing.T) {
	r := NewResolver(bypassType)

	assert.True(t, r.Resolve(bypassType, nil, Require("Patient Management", "Delete")))
	assert.True(t, r.Resolve(bypassType, PermissionSet{}, Require("anything", "at all")))
	assert.True(t, r.Resolve(bypassType, nil, Requirement{}))
}

func TestResolveEmptyPermissionSetDenies(t *testing.T) {
	r := NewResolver(bypassType)

	assert.False(t, r.Resolve("staff", nil, Require("Patient Management", "Read")))
	assert.False(t, r.Resolve("doctor", PermissionSet{}, Require("Appointment Management", "Create")))
}

func TestResolvePublicRouteAllowsAnyone(t *testing.T) {
	r := NewResolver(bypassType)

	assert.True(t, r.Resolve("patient", nil, PublicRoute))
	assert.True(t, r.Resolve("staff", PermissionSet{}, PublicRoute))
}

func TestResolveMissingUserTypeDeniesEvenPublic(t *testing.T) {
	r := NewResolver(bypassType)

	assert.False(t, r.Resolve("", nil, PublicRoute))
	assert.False(t, r.Resolve("", PermissionSet{{Module: "Tasks", Operation: "Read"}}, Require("Tasks", "Read")))
}

func TestResolveUndeclaredRequirementDenies(t *testing.T) {
	r := NewResolver(bypassType)
	grants := PermissionSet{{Module: "Tasks", Operation: "Read"}}

	// A route that forgot to declare its requirement must not fail open.
	assert.False(t, r.Resolve("staff", grants, Requirement{}))
	assert.False(t, r.Resolve("staff", grants, Requirement{Modules: []string{"Tasks"}}))
	assert.False(t, r.Resolve("staff", grants, Requirement{Operations: []string{"Read"}}))
}

func TestResolveNoCrossMatching(t *testing.T) {
	r := NewResolver(bypassType)
	grants := PermissionSet{
		{Module: "Patient Management", Operation: "Read"},
		{Module: "Appointment Management", Operation: "Create"},
	}

	// Module and operation must match within a single grant.
	assert.False(t, r.Resolve("staff", grants, Require("Patient Management", "Create")))
	assert.False(t, r.Resolve("staff", grants, Require("Appointment Management", "Read")))
	assert.True(t, r.Resolve("staff", grants, Require("Patient Management", "Read")))
	assert.True(t, r.Resolve("staff", grants, Require("Appointment Management", "Create")))
}

func TestResolveReceptionistScenario(t *testing.T) {
	r := NewResolver(bypassType)
	receptionist := PermissionSet{{Module: "Appointment Management", Operation: "Read"}}

	assert.True(t, r.Resolve("staff", receptionist, Require("Appointment Management", "Read")))
	assert.False(t, r.Resolve("staff", receptionist, Require("Appointment Management", "Create")))
}

func TestResolveAnyOfDeclaredLists(t *testing.T) {
	r := NewResolver(bypassType)
	grants := PermissionSet{{Module: "B", Operation: "Read"}}

	// Requiring modules {A,B} x operations {Read} is satisfied by B/Read.
	req := RequireAny([]string{"A", "B"}, []string{"Read"})
	assert.True(t, r.Resolve("staff", grants, req))

	req = RequireAny([]string{"A", "C"}, []string{"Read"})
	assert.False(t, r.Resolve("staff", grants, req))
}

func TestResolveIsIdempotent(t *testing.T) {
	r := NewResolver(bypassType)
	grants := PermissionSet{{Module: "Forms", Operation: "Update"}}
	req := Require("Forms", "Update")

	first := r.Resolve("staff", grants, req)
	second := r.Resolve("staff", grants, req)
	assert.Equal(t, first, second)
	assert.True(t, first)
}

func TestPermissionSetHolds(t *testing.T) {
	set := PermissionSet{
		{Module: "Tasks", Operation: "Read"},
		{Module: "Tasks", Operation: "Update"},
	}

	assert.True(t, set.Holds("Tasks", "Update"))
	assert.False(t, set.Holds("Tasks", "Delete"))
	assert.False(t, set.Holds("Forms", "Read"))
}
