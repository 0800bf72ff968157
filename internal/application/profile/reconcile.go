package profile

// ChangeSummary counts what a replace-by-diff edit did.
type ChangeSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
}

// diffPlan partitions a desired collection against the stored one.
type diffPlan[T any] struct {
	Insert []T
	Update []T
	Delete []T
}

// planDiff matches desired rows to stored rows by key. A desired row whose key is
// zero, unknown or already claimed by an earlier row is an insert. A matched row
// is an update only when changed reports a difference. Stored rows nobody
// claimed are deletes. Order of desired rows is preserved within each bucket.
func planDiff[T any](stored, desired []T, key func(T) uint, changed func(old, new T) bool) diffPlan[T] {
	byKey := make(map[uint]T, len(stored))
	for _, row := range stored {
		byKey[key(row)] = row
	}
	claimed := make(map[uint]bool, len(desired))

	var plan diffPlan[T]
	for _, row := range desired {
		k := key(row)
		old, ok := byKey[k]
		if k == 0 || !ok || claimed[k] {
			plan.Insert = append(plan.Insert, row)
			continue
		}
		claimed[k] = true
		if changed(old, row) {
			plan.Update = append(plan.Update, row)
		}
	}
	for _, row := range stored {
		if !claimed[key(row)] {
			plan.Delete = append(plan.Delete, row)
		}
	}
	return plan
}

func (p diffPlan[T]) summary() ChangeSummary {
	return ChangeSummary{Inserted: len(p.Insert), Updated: len(p.Update), Deleted: len(p.Delete)}
}
