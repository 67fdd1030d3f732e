package authorization

import (
	"fmt"
	"sort"
)

// RoleRegistry holds the role graph: each role owns a set of permissions
// and an optional ordered list of parent roles. A role's effective
// permission set is the union over itself and all transitive parents.
//
// Registration happens at startup; a cycle in the parent graph is
// rejected at registration time. Resolve computes and memoizes the
// transitive closure; after Resolve the registry is read-only and safe
// for concurrent lookups.
type RoleRegistry struct {
	parents     map[string][]string
	permissions map[string][]string
	effective   map[string]map[string]bool
	resolved    bool
}

// NewRoleRegistry creates an empty role registry.
func NewRoleRegistry() *RoleRegistry {
	return &RoleRegistry{
		parents:     make(map[string][]string),
		permissions: make(map[string][]string),
	}
}

// RegisterRole registers a role with its own permissions and parent
// roles. Parents may be registered later (forward references are
// allowed), but an edge that closes a cycle over the already-known graph
// is rejected immediately and the registry is left unchanged.
func (r *RoleRegistry) RegisterRole(name string, permissions []string, parents ...string) error {
	if r.resolved {
		return fmt.Errorf("role registry already resolved; roles must be registered before Resolve")
	}
	if name == "" {
		return fmt.Errorf("role name cannot be empty")
	}
	if _, exists := r.parents[name]; exists {
		return fmt.Errorf("role %q already registered", name)
	}

	r.parents[name] = append([]string(nil), parents...)
	if cycle := r.findCycle(name); cycle != nil {
		delete(r.parents, name)
		return fmt.Errorf("role hierarchy cycle: %v", cycle)
	}
	r.permissions[name] = append([]string(nil), permissions...)
	return nil
}

// Resolve validates every parent reference and memoizes each role's
// effective permission set. Must be called once after all registrations.
func (r *RoleRegistry) Resolve() error {
	if r.resolved {
		return fmt.Errorf("role registry already resolved")
	}

	for role, parents := range r.parents {
		for _, parent := range parents {
			if _, ok := r.parents[parent]; !ok {
				return fmt.Errorf("role %q references unknown parent %q", role, parent)
			}
		}
	}

	r.effective = make(map[string]map[string]bool, len(r.parents))
	for role := range r.parents {
		r.resolveRole(role)
	}

	r.resolved = true
	return nil
}

// HasPermission reports whether any of the given roles carries the
// permission, directly or through a parent. Unknown roles contribute
// nothing. Panics if called before Resolve, which is a wiring bug.
func (r *RoleRegistry) HasPermission(roles []string, permission string) bool {
	if !r.resolved {
		panic("authorization: RoleRegistry used before Resolve")
	}
	for _, role := range roles {
		if r.effective[role][permission] {
			return true
		}
	}
	return false
}

// EffectivePermissions returns the sorted effective permission set of a
// role. Unknown roles yield an empty set.
func (r *RoleRegistry) EffectivePermissions(role string) []string {
	if !r.resolved {
		panic("authorization: RoleRegistry used before Resolve")
	}
	set := r.effective[role]
	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms
}

func (r *RoleRegistry) resolveRole(role string) map[string]bool {
	if set, ok := r.effective[role]; ok {
		return set
	}

	set := make(map[string]bool, len(r.permissions[role]))
	// Seed before recursing so the memo table is populated bottom-up;
	// the graph is acyclic by the registration-time check.
	r.effective[role] = set
	for _, p := range r.permissions[role] {
		set[p] = true
	}
	for _, parent := range r.parents[role] {
		for p := range r.resolveRole(parent) {
			set[p] = true
		}
	}
	return set
}

// findCycle walks parent edges from start and returns the cycle path if
// the walk revisits a node on the current stack, nil otherwise.
func (r *RoleRegistry) findCycle(start string) []string {
	onStack := make(map[string]bool)
	var path []string

	var walk func(role string) []string
	walk = func(role string) []string {
		if onStack[role] {
			return append(path, role)
		}
		parents, known := r.parents[role]
		if !known {
			return nil
		}
		onStack[role] = true
		path = append(path, role)
		for _, parent := range parents {
			if cycle := walk(parent); cycle != nil {
				return cycle
			}
		}
		path = path[:len(path)-1]
		onStack[role] = false
		return nil
	}

	return walk(start)
}
