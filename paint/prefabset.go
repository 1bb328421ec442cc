package paint

// PrefabEntry is one candidate prefab and its relative selection weight.
type PrefabEntry struct {
	ID     PrefabID
	Weight float64
}

// PrefabSet holds the candidate prefabs in a stable draw order.
// Entries with an empty ID are kept as slots: a draw landing on one yields nothing.
type PrefabSet struct {
	entries []PrefabEntry
	index   map[PrefabID]int // first slot holding each non-empty ID
}

// NewPrefabSet returns a set holding the given entries in order.
func NewPrefabSet(entries ...PrefabEntry) *PrefabSet {
	s := &PrefabSet{}
	s.Replace(entries)
	return s
}

// Replace swaps the whole candidate list. A repeated ID keeps its first slot
// and takes the last weight given for it.
func (s *PrefabSet) Replace(entries []PrefabEntry) {
	s.entries = s.entries[:0]
	s.index = make(map[PrefabID]int, len(entries))
	for _, e := range entries {
		if e.ID != "" {
			if i, ok := s.index[e.ID]; ok {
				s.entries[i].Weight = e.Weight
				continue
			}
			s.index[e.ID] = len(s.entries)
		}
		s.entries = append(s.entries, e)
	}
}

// Set updates the weight of id, appending it if absent.
func (s *PrefabSet) Set(id PrefabID, weight float64) {
	if i, ok := s.index[id]; ok && id != "" {
		s.entries[i].Weight = weight
		return
	}
	if id != "" {
		if s.index == nil {
			s.index = make(map[PrefabID]int)
		}
		s.index[id] = len(s.entries)
	}
	s.entries = append(s.entries, PrefabEntry{ID: id, Weight: weight})
}

// Weight returns the weight of id and whether it is present.
func (s *PrefabSet) Weight(id PrefabID) (float64, bool) {
	i, ok := s.index[id]
	if !ok {
		return 0, false
	}
	return s.entries[i].Weight, true
}

// Contains reports whether id is a candidate.
func (s *PrefabSet) Contains(id PrefabID) bool {
	_, ok := s.index[id]
	return ok
}

// Entries returns a copy of the entries in draw order.
func (s *PrefabSet) Entries() []PrefabEntry {
	out := make([]PrefabEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of slots.
func (s *PrefabSet) Len() int { return len(s.entries) }

// TotalWeight returns the sum of all weights.
func (s *PrefabSet) TotalWeight() float64 {
	var w float64
	for _, e := range s.entries {
		w += e.Weight
	}
	return w
}

// Draw walks the entries in order accumulating weights and returns the first
// entry whose cumulative weight is strictly greater than r. It returns false
// when the sum never exceeds r or the selected slot is empty.
func (s *PrefabSet) Draw(r float64) (PrefabEntry, bool) {
	var cum float64
	for _, e := range s.entries {
		cum += e.Weight
		if cum > r {
			if e.ID == "" {
				return PrefabEntry{}, false
			}
			return e, true
		}
	}
	return PrefabEntry{}, false
}
