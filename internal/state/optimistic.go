package state

// PendingOp is one optimistic write awaiting the server
type PendingOp struct {
	ID      string
	Desired bool
}

// Toggle is a server-backed boolean (in collection, following) with
// optimistic writes layered on top.
//
// Every intent is recorded as its own pending operation. The observable
// value is the newest pending desire, or the last confirmed server value
// when nothing is pending. Failing one operation removes only that
// operation, so overlapping toggles never revert each other.
type Toggle struct {
	Confirmed bool
	Known     bool
	Pending   []PendingOp
}

// Value returns the observable flag
func (t Toggle) Value() bool {
	if n := len(t.Pending); n > 0 {
		return t.Pending[n-1].Desired
	}
	return t.Confirmed
}

// Busy reports whether any write is outstanding
func (t Toggle) Busy() bool {
	return len(t.Pending) > 0
}

// Begin layers a new optimistic write
func (t Toggle) Begin(op string, desired bool) Toggle {
	pending := make([]PendingOp, 0, len(t.Pending)+1)
	pending = append(pending, t.Pending...)
	pending = append(pending, PendingOp{ID: op, Desired: desired})
	return Toggle{Confirmed: t.Confirmed, Known: t.Known, Pending: pending}
}

func (t Toggle) without(op string) ([]PendingOp, bool) {
	found := false
	pending := make([]PendingOp, 0, len(t.Pending))
	for _, p := range t.Pending {
		if p.ID == op {
			found = true
			continue
		}
		pending = append(pending, p)
	}
	return pending, found
}

// Succeed retires op and records the server's answer
func (t Toggle) Succeed(op string, server bool) Toggle {
	pending, _ := t.without(op)
	return Toggle{Confirmed: server, Known: true, Pending: pending}
}

// Fail retires op without changing the confirmed value
func (t Toggle) Fail(op string) Toggle {
	pending, found := t.without(op)
	if !found {
		return t
	}
	return Toggle{Confirmed: t.Confirmed, Known: t.Known, Pending: pending}
}

// Confirm records a server value learned from a status probe
func (t Toggle) Confirm(server bool) Toggle {
	return Toggle{Confirmed: server, Known: true, Pending: t.Pending}
}

// countDelta is the change a counter tied to the flag should receive when
// the toggle moves from before to after.
func countDelta(before, after Toggle) int {
	return boolInt(after.Value()) - boolInt(before.Value())
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
