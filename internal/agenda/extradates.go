package agenda

import "agendawire/internal/model"

// ExtraDates computes the additional civil days an item must appear on,
// independent of its natural start/end interval.
//
// Without a search match the item's explicit extra display dates are
// returned verbatim. With one, the relevant days are pulled from the
// matched planning entries instead: a matched entry with no scheduled
// coverages contributes its own scheduled date, otherwise each matched
// (or, absent a coverage filter, each scheduled) coverage contributes
// its scheduled day. This keeps a filtered item visible on the days that
// explain why it matched, not only on its natural day.
func ExtraDates(it model.Item) []Date {
	if it.SearchMatch == nil {
		if len(it.ExtraDisplayDates) == 0 {
			return nil
		}
		out := make([]Date, 0, len(it.ExtraDisplayDates))
		for _, t := range it.ExtraDisplayDates {
			if t.IsZero() {
				continue
			}
			out = append(out, DateOf(t))
		}
		return out
	}

	if len(it.Plans) == 0 {
		return nil
	}

	matchedPlans := idSet(it.SearchMatch.PlanningIDs)
	var matchedCoverages map[string]bool
	if it.SearchMatch.CoverageIDs != nil {
		matchedCoverages = idSet(it.SearchMatch.CoverageIDs)
	}

	var out []Date
	for _, plan := range it.Plans {
		if !matchedPlans[plan.ID] {
			continue
		}

		scheduled := scheduledCoverages(plan)
		if len(scheduled) == 0 {
			if !plan.ScheduledDate.IsZero() {
				out = append(out, DateOf(plan.ScheduledDate))
			}
			continue
		}

		for _, cov := range scheduled {
			if matchedCoverages != nil && !matchedCoverages[cov.ID] {
				continue
			}
			out = append(out, DateOf(cov.Scheduled))
		}
	}
	return out
}

func scheduledCoverages(plan model.Planning) []model.Coverage {
	var out []model.Coverage
	for _, cov := range plan.Coverages {
		if !cov.Scheduled.IsZero() {
			out = append(out, cov)
		}
	}
	return out
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
