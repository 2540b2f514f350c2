package wcif

import (
	"fmt"
	"sort"
	"strings"
)

// GroupOrder selects how resolved groups are ordered.
type GroupOrder string

const (
	// OrderSchedule keeps schedule-tree position (venue, room, round, group).
	OrderSchedule GroupOrder = "schedule"
	// OrderChronological sorts by group start time, ties keep tree order.
	OrderChronological GroupOrder = "chronological"
)

// RoleFilter selects which assignment codes count as a group membership.
type RoleFilter string

const (
	RolesAny        RoleFilter = "any"
	RolesCompetitor RoleFilter = "competitor"
)

// GroupOptions tunes ResolveUserGroups. The zero value means schedule order and any role.
type GroupOptions struct {
	Order GroupOrder
	Roles RoleFilter
}

// UserGroup pairs a group with the competitor's assignment for it.
type UserGroup struct {
	Group      ChildActivity
	Assignment Assignment
}

func ParseGroupOrder(raw string) (GroupOrder, error) {
	switch GroupOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case "", OrderSchedule:
		return OrderSchedule, nil
	case OrderChronological:
		return OrderChronological, nil
	default:
		return "", fmt.Errorf("invalid group order %q: valid values are %s, %s", raw, OrderSchedule, OrderChronological)
	}
}

func ParseRoleFilter(raw string) (RoleFilter, error) {
	switch RoleFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RolesAny:
		return RolesAny, nil
	case RolesCompetitor:
		return RolesCompetitor, nil
	default:
		return "", fmt.Errorf("invalid role filter %q: valid values are %s, %s", raw, RolesAny, RolesCompetitor)
	}
}

// ResolveUserGroups finds every group the competitor holds an assignment for.
//
// Groups are visited venue by venue, room by room, round by round. The first
// matching assignment wins and a group id is emitted at most once, so two
// distinct groups sharing an id collapse into one. Missing input yields an
// empty result.
func ResolveUserGroups(schedule *Schedule, persons []Person, competitorID *int64, opts GroupOptions) []UserGroup {
	out := []UserGroup{}
	if competitorID == nil || schedule == nil || len(persons) == 0 {
		return out
	}

	var person *Person
	for i := range persons {
		if persons[i].RegistrantID == *competitorID {
			person = &persons[i]
			break
		}
	}
	if person == nil || person.Assignments == nil {
		return out
	}

	seen := make(map[int64]struct{})
	for _, venue := range schedule.Venues {
		for _, room := range venue.Rooms {
			for _, round := range room.Activities {
				for _, group := range round.ChildActivities {
					assignment, ok := findAssignment(person.Assignments, group.ID, opts.Roles)
					if !ok {
						continue
					}
					if _, dup := seen[group.ID]; dup {
						continue
					}
					seen[group.ID] = struct{}{}
					out = append(out, UserGroup{Group: group, Assignment: assignment})
				}
			}
		}
	}

	if opts.Order == OrderChronological {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Group.StartTime.Before(out[j].Group.StartTime)
		})
	}

	return out
}

func findAssignment(assignments []Assignment, activityID int64, roles RoleFilter) (Assignment, bool) {
	for _, a := range assignments {
		if a.ActivityID != activityID {
			continue
		}
		if roles == RolesCompetitor && a.AssignmentCode != AssignmentCompetitor {
			continue
		}
		return a, true
	}
	return Assignment{}, false
}

// AssignmentLabel maps an assignment code to its display name.
func AssignmentLabel(code string) string {
	switch code {
	case AssignmentCompetitor:
		return "Competitor"
	case AssignmentJudge:
		return "Judge"
	case AssignmentScrambler:
		return "Scrambler"
	case AssignmentRunner:
		return "Runner"
	default:
		return code
	}
}
