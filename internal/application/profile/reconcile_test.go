package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID   uint
	Name string
}

func rowKey(r row) uint        { return r.ID }
func rowChanged(a, b row) bool { return a.Name != b.Name }

func TestPlanDiff_Partitions(t *testing.T) {
	stored := []row{{1, "a"}, {2, "b"}, {3, "c"}}
	desired := []row{{1, "a"}, {2, "B"}, {0, "new"}, {42, "foreign"}}

	plan := planDiff(stored, desired, rowKey, rowChanged)
	assert.Equal(t, []row{{2, "B"}}, plan.Update)
	assert.Equal(t, []row{{0, "new"}, {42, "foreign"}}, plan.Insert)
	assert.Equal(t, []row{{3, "c"}}, plan.Delete)
	assert.Equal(t, ChangeSummary{Inserted: 2, Updated: 1, Deleted: 1}, plan.summary())
}

func TestPlanDiff_SameListIsNoop(t *testing.T) {
	stored := []row{{1, "a"}, {2, "b"}}
	plan := planDiff(stored, stored, rowKey, rowChanged)
	assert.Equal(t, ChangeSummary{}, plan.summary())
}

func TestPlanDiff_DuplicateIDBecomesInsert(t *testing.T) {
	stored := []row{{1, "a"}}
	plan := planDiff(stored, []row{{1, "a"}, {1, "copy"}}, rowKey, rowChanged)
	assert.Empty(t, plan.Update)
	assert.Equal(t, []row{{1, "copy"}}, plan.Insert)
	assert.Empty(t, plan.Delete)
}

func TestPlanDiff_EmptyDesiredDeletesAll(t *testing.T) {
	stored := []row{{1, "a"}, {2, "b"}}
	plan := planDiff(stored, nil, rowKey, rowChanged)
	assert.Len(t, plan.Delete, 2)
	assert.Empty(t, plan.Insert)
}
