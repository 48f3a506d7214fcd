package draft

// Listener receives every new snapshot, synchronously, in subscription order.
type Listener func(Draft)

// Store owns the draft of one editing session. It has a single writer: the
// session that created it. Listeners run on the writer's goroutine before
// Set or Reset return, so they always observe a complete snapshot.
type Store struct {
	current   Draft
	listeners []*Listener
}

// NewStore creates a store seeded with initial. Nothing is notified.
func NewStore(initial Draft) *Store {
	return &Store{current: initial.clone()}
}

// Snapshot returns the current draft.
func (s *Store) Snapshot() Draft {
	return s.current.clone()
}

// Set replaces one field and returns the new snapshot. On error the draft is
// unchanged and nobody is notified.
func (s *Store) Set(key FieldKey, value any) (Draft, error) {
	next, err := s.current.with(key, value)
	if err != nil {
		return s.Snapshot(), err
	}
	s.current = next
	s.notify()
	return s.Snapshot(), nil
}

// Reset replaces the whole draft.
func (s *Store) Reset(initial Draft) Draft {
	s.current = initial.clone()
	s.notify()
	return s.Snapshot()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	l := &fn
	s.listeners = append(s.listeners, l)
	return func() {
		for i, existing := range s.listeners {
			if existing == l {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify() {
	for _, l := range s.listeners {
		(*l)(s.Snapshot())
	}
}
