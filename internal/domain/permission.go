package domain

import (
	"fmt"
	"strings"
)

type Resource string

const (
	ResourceReservation Resource = "reservation"
	ResourceUser        Resource = "user"
	ResourceDevice      Resource = "device"
	ResourceAnalytics   Resource = "analytics"
	ResourceAdmin       Resource = "admin"
	ResourceBanner      Resource = "banner"
	ResourceCredit      Resource = "credit"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionList    Action = "list"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCheckIn Action = "checkin"
	ActionExport  Action = "export"
)

// AllResources is ordered; AdminPermissions follows this order.
var AllResources = []Resource{
	ResourceReservation,
	ResourceUser,
	ResourceDevice,
	ResourceAnalytics,
	ResourceAdmin,
	ResourceBanner,
	ResourceCredit,
}

var resourceNames = map[Resource]string{
	ResourceReservation: "예약",
	ResourceUser:        "사용자",
	ResourceDevice:      "기기",
	ResourceAnalytics:   "분석",
	ResourceAdmin:       "관리자",
	ResourceBanner:      "배너",
	ResourceCredit:      "크레딧",
}

var actionNames = map[Action]string{
	ActionCreate:  "생성",
	ActionRead:    "조회",
	ActionUpdate:  "수정",
	ActionDelete:  "삭제",
	ActionList:    "목록 조회",
	ActionApprove: "승인",
	ActionReject:  "거절",
	ActionCheckIn: "체크인",
	ActionExport:  "내보내기",
}

var baseActions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList}

var extraActions = map[Resource][]Action{
	ResourceReservation: {ActionApprove, ActionReject, ActionCheckIn},
	ResourceAnalytics:   {ActionExport},
}

func ParseResource(s string) (Resource, error) {
	r := Resource(s)
	if _, ok := resourceNames[r]; !ok {
		return "", ValidationError("Invalid resource: " + s)
	}
	return r, nil
}

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actionNames[a]; !ok {
		return "", ValidationError("Invalid action: " + s)
	}
	return a, nil
}

// Permission is a (resource, action) pair. Compare with ==.
type Permission struct {
	Resource Resource
	Action   Action
}

func NewPermission(resource, action string) (Permission, error) {
	r, err := ParseResource(resource)
	if err != nil {
		return Permission{}, err
	}
	a, err := ParseAction(action)
	if err != nil {
		return Permission{}, err
	}
	return Permission{Resource: r, Action: a}, nil
}

// ParsePermission reads the "resource:action" form.
func ParsePermission(s string) (Permission, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Permission{}, ValidationError("Invalid permission format")
	}
	return NewPermission(parts[0], parts[1])
}

func (p Permission) String() string {
	return fmt.Sprintf("%s:%s", p.Resource, p.Action)
}

// Description renders e.g. "예약 승인".
func (p Permission) Description() string {
	return resourceNames[p.Resource] + " " + actionNames[p.Action]
}

// Wildcard returns every action defined for a resource.
func Wildcard(r Resource) []Permission {
	actions := append(append([]Action{}, baseActions...), extraActions[r]...)
	perms := make([]Permission, 0, len(actions))
	for _, a := range actions {
		perms = append(perms, Permission{Resource: r, Action: a})
	}
	return perms
}

func AdminPermissions() []Permission {
	var perms []Permission
	for _, r := range AllResources {
		perms = append(perms, Wildcard(r)...)
	}
	return perms
}

func UserPermissions() []Permission {
	perms := Wildcard(ResourceReservation)[:len(baseActions)]
	return append(append([]Permission{}, perms...),
		Permission{Resource: ResourceUser, Action: ActionRead},
		Permission{Resource: ResourceUser, Action: ActionUpdate},
		Permission{Resource: ResourceDevice, Action: ActionRead},
		Permission{Resource: ResourceDevice, Action: ActionList},
	)
}

func ContainsPermission(perms []Permission, p Permission) bool {
	for _, candidate := range perms {
		if candidate == p {
			return true
		}
	}
	return false
}
