package readmodel

// Selection is an ordered set of record ids picked from the currently
// visible (filtered) listing. It must be re-intersected with the visible
// set whenever the filter changes.
type Selection struct {
	order   []string
	members map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{members: make(map[string]struct{})}
}

// SelectAll replaces the selection with exactly the visible ids, in order.
func (s *Selection) SelectAll(visible []string) {
	s.order = append([]string(nil), visible...)
	s.members = make(map[string]struct{}, len(visible))
	for _, id := range visible {
		s.members[id] = struct{}{}
	}
}

// Toggle flips membership of one id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.members[id]; ok {
		delete(s.members, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Contains reports membership.
func (s *Selection) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Prune drops selected ids no longer present in the visible set, keeping
// selection order.
func (s *Selection) Prune(visible []string) {
	visibleSet := make(map[string]struct{}, len(visible))
	for _, id := range visible {
		visibleSet[id] = struct{}{}
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := visibleSet[id]; ok {
			kept = append(kept, id)
		} else {
			delete(s.members, id)
		}
	}
	s.order = kept
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.order = nil
	s.members = make(map[string]struct{})
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.order)
}
