// Package policy decides whether an actor may perform an action on a subject.
//
// Every rule lives in one table keyed by (Kind, Action). Organization
// membership is checked first by the rules that carry a target; role only
// widens access inside the actor's own organization. Pairs without a rule
// are denied.
package policy

import (
	"taskboard.com/taskboard/internal/constants"
	model "taskboard.com/taskboard/pkg/models"
)

type Kind string

const (
	KindOrganization Kind = "organization"
	KindUser         Kind = "user"
	KindProject      Kind = "project"
	KindTask         Kind = "task"
	KindReport       Kind = "report"
)

type Action string

const (
	ActionViewAny Action = "viewAny"
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
)

// Subject is the snapshot of a target entity the rules need.
// OrganizationID is zero for kind-level checks (viewAny, create).
type Subject struct {
	Kind           Kind
	OrganizationID uint
	CreatorID      uint
	UserID         uint
}

type rule func(actor *model.User, s Subject) bool

type key struct {
	kind   Kind
	action Action
}

var rules = map[key]rule{
	{KindProject, ActionViewAny}: allow,
	{KindProject, ActionView}:    sameOrg,
	{KindProject, ActionCreate}:  managerRole,
	{KindProject, ActionUpdate}:  allOf(sameOrg, managerRole),
	{KindProject, ActionDelete}:  allOf(sameOrg, adminRole),
	{KindProject, ActionRestore}: allOf(sameOrg, adminRole),

	{KindTask, ActionViewAny}: allow,
	{KindTask, ActionView}:    sameOrg,
	{KindTask, ActionCreate}:  allow,
	{KindTask, ActionUpdate}:  sameOrg,
	{KindTask, ActionDelete}:  allOf(sameOrg, anyOf(hasRole(constants.RoleManager), creator)),
	{KindTask, ActionRestore}: allOf(sameOrg, anyOf(hasRole(constants.RoleManager), creator)),

	{KindUser, ActionViewAny}: adminRole,
	{KindUser, ActionCreate}:  adminRole,
	{KindUser, ActionView}:    allOf(adminRole, sameOrg, notSelf),
	{KindUser, ActionUpdate}:  allOf(adminRole, sameOrg, notSelf),
	{KindUser, ActionDelete}:  allOf(adminRole, sameOrg, notSelf),
	{KindUser, ActionRestore}: allOf(adminRole, sameOrg, notSelf),

	{KindOrganization, ActionView}:    sameOrg,
	{KindOrganization, ActionUpdate}:  allOf(sameOrg, adminRole),
	{KindOrganization, ActionDelete}:  allOf(sameOrg, adminRole),
	{KindOrganization, ActionRestore}: allOf(sameOrg, adminRole),

	{KindReport, ActionView}: allOf(sameOrg, managerRole),
}

// Authorize reports whether actor may perform action on s. It has no side
// effects and never panics; a nil actor is always denied.
func Authorize(actor *model.User, action Action, s Subject) bool {
	if actor == nil {
		return false
	}
	r, ok := rules[key{s.Kind, action}]
	if !ok {
		return false
	}
	return r(actor, s)
}

func allow(*model.User, Subject) bool { return true }

func sameOrg(actor *model.User, s Subject) bool {
	return s.OrganizationID != 0 && actor.OrganizationID == s.OrganizationID
}

func managerRole(actor *model.User, _ Subject) bool { return actor.IsManager() }

func adminRole(actor *model.User, _ Subject) bool { return actor.IsAdmin() }

func notSelf(actor *model.User, s Subject) bool { return actor.ID != s.UserID }

func creator(actor *model.User, s Subject) bool {
	return s.CreatorID != 0 && actor.ID == s.CreatorID
}

func hasRole(role constants.Role) rule {
	return func(actor *model.User, _ Subject) bool { return actor.Role == role }
}

func allOf(rs ...rule) rule {
	return func(actor *model.User, s Subject) bool {
		for _, r := range rs {
			if !r(actor, s) {
				return false
			}
		}
		return true
	}
}

func anyOf(rs ...rule) rule {
	return func(actor *model.User, s Subject) bool {
		for _, r := range rs {
			if r(actor, s) {
				return true
			}
		}
		return false
	}
}
