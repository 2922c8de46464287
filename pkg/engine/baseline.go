package engine

// ChangeKind classifies how a control moved between two runs.
type ChangeKind string

const (
	ChangeImproved  ChangeKind = "improved"
	ChangeRegressed ChangeKind = "regressed"
	ChangeUnchanged ChangeKind = "unchanged"
	ChangeAdded     ChangeKind = "added"
	ChangeRemoved   ChangeKind = "removed"
)

// StatusChange is one control's before/after status.
type StatusChange struct {
	ControlID string     `json:"control_id"`
	Title     string     `json:"title"`
	Kind      ChangeKind `json:"kind"`
	Before    Status     `json:"before,omitempty"`
	After     Status     `json:"after,omitempty"`
}

// ResultDiff groups status changes between a baseline and a current run.
type ResultDiff struct {
	Improved  []StatusChange `json:"improved"`
	Regressed []StatusChange `json:"regressed"`
	Unchanged []StatusChange `json:"unchanged"`
	Added     []StatusChange `json:"added"`
	Removed   []StatusChange `json:"removed"`
}

// CompareResults compares current against baseline by control ID. Controls
// keep current order; removed controls keep baseline order.
func CompareResults(current, baseline []EvaluationResult) ResultDiff {
	diff := ResultDiff{
		Improved:  []StatusChange{},
		Regressed: []StatusChange{},
		Unchanged: []StatusChange{},
		Added:     []StatusChange{},
		Removed:   []StatusChange{},
	}

	before := make(map[string]EvaluationResult, len(baseline))
	for _, r := range baseline {
		before[r.ControlID] = r
	}
	seen := make(map[string]bool, len(current))

	for _, r := range current {
		seen[r.ControlID] = true
		old, ok := before[r.ControlID]
		if !ok {
			diff.Added = append(diff.Added, StatusChange{ControlID: r.ControlID, Title: r.Title, Kind: ChangeAdded, After: r.Status})
			continue
		}
		c := StatusChange{ControlID: r.ControlID, Title: r.Title, Before: old.Status, After: r.Status}
		switch {
		case r.Status.rank() > old.Status.rank():
			c.Kind = ChangeImproved
			diff.Improved = append(diff.Improved, c)
		case r.Status.rank() < old.Status.rank():
			c.Kind = ChangeRegressed
			diff.Regressed = append(diff.Regressed, c)
		default:
			c.Kind = ChangeUnchanged
			diff.Unchanged = append(diff.Unchanged, c)
		}
	}

	for _, r := range baseline {
		if !seen[r.ControlID] {
			diff.Removed = append(diff.Removed, StatusChange{ControlID: r.ControlID, Title: r.Title, Kind: ChangeRemoved, Before: r.Status})
		}
	}
	return diff
}

// Changed reports whether any control moved, appeared or disappeared.
func (d ResultDiff) Changed() bool {
	return len(d.Improved)+len(d.Regressed)+len(d.Added)+len(d.Removed) > 0
}
