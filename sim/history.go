package sim

// historyArena holds the per-cycle snapshots of every synchronous
// component, keyed by component identifier. Snapshots are ordered
// oldest-first; the oldest is retained for reset-to-first-cycle.
type historyArena struct {
	stacks map[string][]State
}

func newHistoryArena() *historyArena {
	return &historyArena{stacks: make(map[string][]State)}
}

func (h *historyArena) push(id string, s State) {
	h.stacks[id] = append(h.stacks[id], s)
}

// pop removes and returns the most recent snapshot.
func (h *historyArena) pop(id string) (State, bool) {
	stack := h.stacks[id]
	if len(stack) == 0 {
		return nil, false
	}
	s := stack[len(stack)-1]
	h.stacks[id] = stack[:len(stack)-1]
	return s, true
}

// oldest returns the first snapshot without removing it.
func (h *historyArena) oldest(id string) (State, bool) {
	stack := h.stacks[id]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[0], true
}

// resetToOldest drops every snapshot newer than the first and returns
// the first, which stays in the arena.
func (h *historyArena) resetToOldest(id string) (State, bool) {
	stack := h.stacks[id]
	if len(stack) == 0 {
		return nil, false
	}
	h.stacks[id] = stack[:1]
	return stack[0], true
}

func (h *historyArena) depth(id string) int {
	return len(h.stacks[id])
}

func (h *historyArena) clear() {
	h.stacks = make(map[string][]State)
}
