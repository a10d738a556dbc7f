package reconcile

// orderedSet keeps the first value seen for each key, in insertion order.
type orderedSet struct {
	seen   map[string]struct{}
	values []string
}

func newOrderedSet(capacity int) *orderedSet {
	return &orderedSet{
		seen:   make(map[string]struct{}, capacity),
		values: make([]string, 0, capacity),
	}
}

// Add records value under key unless key was already added.
func (s *orderedSet) Add(key, value string) bool {
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	s.values = append(s.values, value)
	return true
}

func (s *orderedSet) Values() []string { return s.values }

// unionExact is a case-sensitive ordered union of lists.
func unionExact(lists ...[]string) []string {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	set := newOrderedSet(n)
	for _, l := range lists {
		for _, v := range l {
			set.Add(v, v)
		}
	}
	return set.Values()
}
