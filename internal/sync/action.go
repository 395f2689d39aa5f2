package sync

import "fmt"

// Op identifies what a planned action does to the replica.
type Op int

const (
	Create Op = iota + 1
	Update
	Delete
	Skip
)

var opNames = [...]string{
	Create: "create",
	Update: "update",
	Delete: "delete",
	Skip:   "skip",
}

func (o Op) String() string {
	if int(o) < len(opNames) && opNames[o] != "" {
		return opNames[o]
	}
	return "unknown"
}

// Action is one planned step. Entry is the source entry for Create/Update/
// Skip and the replica entry for Delete. Recursive marks a Delete that must
// remove a whole replica subtree (the replica has a directory where the
// source now has a file).
type Action struct {
	Op        Op
	Entry     Entry
	Recursive bool
}

// Result records the outcome of applying (or simulating) one action.
type Result struct {
	Action Action
	Err    error
}

// Report is the ordered sequence of per-action outcomes from one pass.
type Report struct {
	Results []Result
	DryRun  bool
}

func (r *Report) add(a Action, err error) {
	r.Results = append(r.Results, Result{Action: a, Err: err})
}

// Failed returns the results that carry a per-item error.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Count returns the number of results with the given op, errors included.
func (r *Report) Count(op Op) int {
	n := 0
	for _, res := range r.Results {
		if res.Action.Op == op {
			n++
		}
	}
	return n
}

func (r *Result) String() string {
	outcome := "ok"
	if r.Err != nil {
		outcome = r.Err.Error()
	}
	return fmt.Sprintf("%s %s %s: %s",
		r.Action.Op, r.Action.Entry.Kind, r.Action.Entry.RelPath, outcome)
}
