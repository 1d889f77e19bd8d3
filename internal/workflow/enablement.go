package workflow

// Recompute derives every enabled flag from uploaded-file presence and
// confirmed-submission state. It is idempotent and order-independent:
// section enablement depends only on uploaded flags, slot enablement only
// on section enablement, file presence, and uploaded flags, so a single
// pass reaches a fixed point. A slot that computes to disabled while still
// holding a file is emptied, which can in turn disable its own dependents;
// the loop runs until no slot changes.
func (st *State) Recompute() {
	for _, name := range st.sectionOrder {
		sec := st.sections[name]
		if sec.DependsOn == "" {
			sec.Enabled = true
			continue
		}
		upstream := st.sections[sec.DependsOn]
		sec.Enabled = upstream != nil && upstream.Uploaded
	}

	for {
		changed := false
		for _, name := range st.slotOrder {
			slot := st.slots[name]
			enabled := st.sections[slot.Section].Enabled

			if edge, ok := st.graph.ParentOf(name); ok && enabled {
				parent := st.slots[edge.Parent]
				enabled = parent != nil && parent.Filled()
				if enabled && edge.RequiresConfirmed {
					enabled = st.sections[slot.Section].Uploaded
				}
			}

			if slot.Enabled != enabled {
				slot.Enabled = enabled
				changed = true
			}

			// A disabled slot must never hold a live record.
			if !enabled && slot.Filled() {
				slot.File = nil
				st.store.Remove(name)
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}
