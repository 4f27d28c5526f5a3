package lifecycle

import (
	"time"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// RenewalWindowDays is the width of the expiring-soon window used when
// partitioning members.
const RenewalWindowDays = 7

// Partition groups members by lifecycle status as of a reference day. The
// three status slices are mutually exclusive; All carries the input order.
type Partition struct {
	Renewing []types.Member
	Expired  []types.Member
	Active   []types.Member
	All      []types.Member
}

// truncateDay drops the time-of-day component. Classification compares
// calendar days, so a membership expiring later today still counts as
// expiring today.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Classify partitions members as of the given time. A member is renewing when
// still active with an end date inside the renewal window, expired when the
// end date has passed, active otherwise.
func Classify(members []types.Member, asOf time.Time) Partition {
	day := truncateDay(asOf)
	windowEnd := day.AddDate(0, 0, RenewalWindowDays)

	p := Partition{All: members}
	for _, m := range members {
		end := truncateDay(m.EndDate)
		switch {
		case end.Before(day):
			p.Expired = append(p.Expired, m)
		case m.IsActive && !end.After(windowEnd):
			p.Renewing = append(p.Renewing, m)
		default:
			p.Active = append(p.Active, m)
		}
	}
	return p
}

// ExpiringMembers returns active members whose membership ends within the
// next days calendar days, today included.
func ExpiringMembers(members []types.Member, asOf time.Time, days int) []types.Member {
	day := truncateDay(asOf)
	windowEnd := day.AddDate(0, 0, days)

	var expiring []types.Member
	for _, m := range members {
		if !m.IsActive {
			continue
		}
		end := truncateDay(m.EndDate)
		if !end.Before(day) && !end.After(windowEnd) {
			expiring = append(expiring, m)
		}
	}
	return expiring
}

// UpcomingReminders returns unsent reminders scheduled within the next days
// calendar days, today included.
func UpcomingReminders(reminders []types.Reminder, asOf time.Time, days int) []types.Reminder {
	day := truncateDay(asOf)
	windowEnd := day.AddDate(0, 0, days)

	var upcoming []types.Reminder
	for _, r := range reminders {
		if r.IsSent {
			continue
		}
		scheduled := truncateDay(r.ScheduledDate)
		if !scheduled.Before(day) && !scheduled.After(windowEnd) {
			upcoming = append(upcoming, r)
		}
	}
	return upcoming
}
