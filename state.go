package canopy

import (
	"encoding/json"
	"slices"
)

// ExpansionState is the set of stable ids whose rows are expanded. It is
// independent of positions, so it survives reordering and reconstruction of
// the root collection. NoID is never recorded.
type ExpansionState struct {
	ids map[int64]struct{}
}

// NewExpansionState creates a state containing ids.
func NewExpansionState(ids ...int64) *ExpansionState {
	s := &ExpansionState{}
	for _, id := range ids {
		s.set(id, true)
	}
	return s
}

func (s *ExpansionState) set(id int64, expanded bool) {
	if id == NoID {
		return
	}
	if expanded {
		if s.ids == nil {
			s.ids = make(map[int64]struct{})
		}
		s.ids[id] = struct{}{}
		return
	}
	delete(s.ids, id)
}

// Contains reports whether id is recorded as expanded.
func (s *ExpansionState) Contains(id int64) bool {
	if id == NoID {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of recorded ids.
func (s *ExpansionState) Len() int {
	return len(s.ids)
}

// IDs returns the recorded ids in ascending order.
func (s *ExpansionState) IDs() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns an independent copy.
func (s *ExpansionState) Clone() *ExpansionState {
	return NewExpansionState(s.IDs()...)
}

func (s *ExpansionState) clear() {
	s.ids = nil
}

// MarshalJSON encodes the state as a JSON array of ids.
func (s *ExpansionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes a JSON array of ids. Any other shape fails with
// ErrTypeMismatch.
func (s *ExpansionState) UnmarshalJSON(data []byte) error {
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return withStackf(ErrTypeMismatch, "decode expansion state: %v", err)
	}
	s.clear()
	for _, id := range ids {
		s.set(id, true)
	}
	return nil
}
