package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendawire/internal/model"
)

func TestExpandMatchesPlanOnBucketDay(t *testing.T) {
	item := model.Item{
		ID:    "foo",
		Start: utc(2018, 10, 15, 10, 0),
		End:   utc(2018, 10, 17, 11, 0),
		Plans: []model.Planning{
			{ID: "p1", ScheduledDate: utc(2018, 10, 15, 9, 0)},
			{ID: "p2", ScheduledDate: utc(2018, 10, 17, 9, 0)},
		},
	}
	itemsByID := map[string]model.Item{"foo": item}

	groups := newTestGrouper().Bucketize([]model.Item{item}, BucketizeOptions{})
	SortGroups(groups)
	require.Equal(t, []string{"15-10-2018", "16-10-2018", "17-10-2018"}, groupKeys(groups))

	// Collapsed: only the primary day produces rows, matching the plan
	// scheduled on that day.
	rows := Expand(groups, itemsByID, nil)
	require.Equal(t, []model.ListRow{
		{ItemID: "foo", GroupKey: "15-10-2018", PlanID: "p1"},
	}, rows)

	// Surfacing the hidden entries of the 17th brings out the other
	// plan's day.
	rows = Expand(groups, itemsByID, map[string]bool{"17-10-2018": true})
	assert.Contains(t, rows, model.ListRow{ItemID: "foo", GroupKey: "17-10-2018", PlanID: "p2"})
}

func TestExpandHiddenEntriesSurfaceFirst(t *testing.T) {
	groups := []model.Group{
		{Key: "16-10-2018", PrimaryIDs: []string{"bar"}, HiddenIDs: []string{"foo"}},
	}
	itemsByID := map[string]model.Item{
		"foo": {ID: "foo", Start: utc(2018, 10, 15, 10, 0), End: utc(2018, 10, 17, 11, 0)},
		"bar": {ID: "bar", Start: utc(2018, 10, 16, 10, 0), End: utc(2018, 10, 16, 11, 0)},
	}

	rows := Expand(groups, itemsByID, map[string]bool{"16-10-2018": true})

	require.Equal(t, []model.ListRow{
		{ItemID: "foo", GroupKey: "16-10-2018"},
		{ItemID: "bar", GroupKey: "16-10-2018"},
	}, rows)
}

func TestExpandCoverageOwnerContributesOnce(t *testing.T) {
	item := model.Item{
		ID:    "foo",
		Start: utc(2018, 10, 15, 10, 0),
		End:   utc(2018, 10, 15, 11, 0),
		Plans: []model.Planning{
			{
				ID: "p1",
				Coverages: []model.Coverage{
					{ID: "c1", PlanningID: "p1", Scheduled: utc(2018, 10, 15, 9, 0)},
					{ID: "c2", PlanningID: "p1", Scheduled: utc(2018, 10, 15, 14, 0)},
				},
			},
		},
	}
	groups := []model.Group{{Key: "15-10-2018", PrimaryIDs: []string{"foo"}}}

	rows := Expand(groups, map[string]model.Item{"foo": item}, nil)

	// Two coverages on the same day still yield a single row for their
	// owning plan.
	require.Equal(t, []model.ListRow{
		{ItemID: "foo", GroupKey: "15-10-2018", PlanID: "p1"},
	}, rows)
}

func TestExpandPlanWithCoveragesIgnoresOwnDate(t *testing.T) {
	item := model.Item{
		ID:    "foo",
		Start: utc(2018, 10, 15, 10, 0),
		End:   utc(2018, 10, 15, 11, 0),
		Plans: []model.Planning{
			{
				ID:            "p1",
				ScheduledDate: utc(2018, 10, 15, 9, 0),
				Coverages: []model.Coverage{
					{ID: "c1", PlanningID: "p1", Scheduled: utc(2018, 10, 20, 9, 0)},
				},
			},
		},
	}
	groups := []model.Group{{Key: "15-10-2018", PrimaryIDs: []string{"foo"}}}

	rows := Expand(groups, map[string]model.Item{"foo": item}, nil)

	// The plan has coverages, so only coverage days count; none matches,
	// leaving a bare row for the item.
	require.Equal(t, []model.ListRow{
		{ItemID: "foo", GroupKey: "15-10-2018"},
	}, rows)
}

func TestExpandEmitsBareRowWithoutMatchingPlan(t *testing.T) {
	item := model.Item{
		ID:    "foo",
		Start: utc(2018, 10, 15, 10, 0),
		End:   utc(2018, 10, 15, 11, 0),
	}
	groups := []model.Group{{Key: "15-10-2018", PrimaryIDs: []string{"foo"}}}

	rows := Expand(groups, map[string]model.Item{"foo": item}, nil)

	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].PlanID)
}

func TestExpandSkipsUnknownItems(t *testing.T) {
	groups := []model.Group{{Key: "15-10-2018", PrimaryIDs: []string{"ghost"}}}

	rows := Expand(groups, map[string]model.Item{}, nil)

	assert.Empty(t, rows)
}

func TestExpandPreservesGroupOrder(t *testing.T) {
	itemsByID := map[string]model.Item{
		"a": {ID: "a", Start: utc(2018, 10, 15, 10, 0), End: utc(2018, 10, 15, 11, 0)},
		"b": {ID: "b", Start: utc(2018, 10, 16, 10, 0), End: utc(2018, 10, 16, 11, 0)},
	}
	groups := []model.Group{
		{Key: "15-10-2018", PrimaryIDs: []string{"a"}},
		{Key: "16-10-2018", PrimaryIDs: []string{"b"}},
	}

	rows := Expand(groups, itemsByID, nil)

	require.Equal(t, []model.ListRow{
		{ItemID: "a", GroupKey: "15-10-2018"},
		{ItemID: "b", GroupKey: "16-10-2018"},
	}, rows)
}
