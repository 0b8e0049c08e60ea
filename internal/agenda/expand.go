package agenda

import (
	appLog "agendawire/internal/log"
	"agendawire/internal/model"
)

// Expand flattens sorted groups into the ordered row list a renderer
// consumes. For each group the candidate ids are its primary entries;
// when the group's key is present in shownHidden the hidden entries are
// surfaced first. Each item contributes one row per planning entry
// scheduled on the group's day, or a single row with no plan reference
// when none matches, so un-covered items still render.
func Expand(groups []model.Group, itemsByID map[string]model.Item, shownHidden map[string]bool) []model.ListRow {
	var rows []model.ListRow

	for _, grp := range groups {
		day, err := ParseDateKey(grp.Key)
		if err != nil {
			appLog.Warn("expand: dropping group with malformed key", "key", grp.Key)
			continue
		}

		ids := grp.PrimaryIDs
		if shownHidden[grp.Key] {
			ids = make([]string, 0, len(grp.HiddenIDs)+len(grp.PrimaryIDs))
			ids = append(ids, grp.HiddenIDs...)
			ids = append(ids, grp.PrimaryIDs...)
		}

		for _, id := range ids {
			it, ok := itemsByID[id]
			if !ok {
				continue
			}

			matched := plansForDay(it, day)
			if len(matched) == 0 {
				rows = append(rows, model.ListRow{ItemID: id, GroupKey: grp.Key})
				continue
			}
			for _, planID := range matched {
				rows = append(rows, model.ListRow{ItemID: id, GroupKey: grp.Key, PlanID: planID})
			}
		}
	}
	return rows
}

// plansForDay collects the planning entries of an item relevant to one
// civil day. Entries without coverages match on their own scheduled
// date; entries with coverages match when any coverage is scheduled on
// the day, contributing the owning entry at most once (first coverage
// wins).
func plansForDay(it model.Item, day Date) []string {
	var out []string
	for _, plan := range it.Plans {
		if len(plan.Coverages) == 0 {
			if !plan.ScheduledDate.IsZero() && DateOf(plan.ScheduledDate).Equal(day) {
				out = append(out, plan.ID)
			}
			continue
		}
		for _, cov := range plan.Coverages {
			if !cov.Scheduled.IsZero() && DateOf(cov.Scheduled).Equal(day) {
				out = append(out, plan.ID)
				break
			}
		}
	}
	return out
}
