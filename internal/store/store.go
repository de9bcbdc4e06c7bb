package store

import (
	"sync"

	"skyrng/internal/log"
	"skyrng/internal/meter"
)

// Listener receives the full aggregate snapshot after every mutation.
// Listeners run synchronously on the mutating goroutine and must return
// quickly; anything slow belongs behind the listener's own debounce.
type Listener func(meter.PlayerRngData)

// Store owns the PlayerRngData aggregate and all mutation of it. Each update
// operation is a create-or-update merge for its key, atomic under concurrent
// invocation, and snapshot reads never observe a partially-written entry.
type Store struct {
	mu        sync.RWMutex
	data      meter.PlayerRngData
	listeners []Listener
}

// New creates an empty store
func New() *Store {
	return &Store{}
}

// Subscribe registers a change listener. Listeners are invoked in
// registration order after every mutating call.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Snapshot returns a point-in-time deep copy, safe to retain
func (s *Store) Snapshot() meter.PlayerRngData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// HasData reports whether anything has been observed yet
func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.HasData()
}

// Hydrate overlays a previously persisted aggregate onto the current state,
// field by field. Intended for startup only; it does not fire listeners, so
// loading saved state does not immediately re-save or re-sync it.
func (s *Store) Hydrate(loaded meter.PlayerRngData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.MergeFrom(loaded)
}

// UpdateSlayerXp sets the stored XP for one slayer line, preserving any
// existing selection on that line's meter.
func (s *Store) UpdateSlayerXp(slayer meter.SlayerType, storedXp int64) {
	s.mutate(func(d *meter.PlayerRngData) {
		if d.Slayers == nil {
			d.Slayers = make(map[meter.SlayerType]meter.Meter)
		}
		m := d.Slayers[slayer]
		m.StoredXp = storedXp
		d.Slayers[slayer] = m
	})
}

// UpdateSlayerSelection sets the selected drop and goal for one slayer line,
// preserving that line's stored XP.
func (s *Store) UpdateSlayerSelection(slayer meter.SlayerType, item string, goalXp *int64) {
	s.mutate(func(d *meter.PlayerRngData) {
		if d.Slayers == nil {
			d.Slayers = make(map[meter.SlayerType]meter.Meter)
		}
		m := d.Slayers[slayer]
		m.SelectedItem = item
		m.GoalXp = copyGoal(goalXp)
		d.Slayers[slayer] = m
	})
}

// UpdateDungeonXp sets the stored XP for one floor's meter
func (s *Store) UpdateDungeonXp(floor meter.DungeonFloor, storedXp int64) {
	s.mutate(func(d *meter.PlayerRngData) {
		if d.Dungeons == nil {
			d.Dungeons = make(map[meter.DungeonFloor]meter.Meter)
		}
		m := d.Dungeons[floor]
		m.StoredXp = storedXp
		d.Dungeons[floor] = m
	})
}

// UpdateDungeonSelection sets the selected drop and goal for one floor's meter
func (s *Store) UpdateDungeonSelection(floor meter.DungeonFloor, item string, goalXp *int64) {
	s.mutate(func(d *meter.PlayerRngData) {
		if d.Dungeons == nil {
			d.Dungeons = make(map[meter.DungeonFloor]meter.Meter)
		}
		m := d.Dungeons[floor]
		m.SelectedItem = item
		m.GoalXp = copyGoal(goalXp)
		d.Dungeons[floor] = m
	})
}

// UpdateNucleusXp sets the stored XP on the crystal nucleus meter
func (s *Store) UpdateNucleusXp(storedXp int64) {
	s.mutate(func(d *meter.PlayerRngData) {
		m := derefOrNew(d.Nucleus)
		m.StoredXp = storedXp
		d.Nucleus = &m
	})
}

// UpdateNucleusSelection sets the selected drop and goal on the nucleus meter
func (s *Store) UpdateNucleusSelection(item string, goalXp *int64) {
	s.mutate(func(d *meter.PlayerRngData) {
		m := derefOrNew(d.Nucleus)
		m.SelectedItem = item
		m.GoalXp = copyGoal(goalXp)
		d.Nucleus = &m
	})
}

// UpdateExperimentationXp sets the stored XP on the experimentation meter
func (s *Store) UpdateExperimentationXp(storedXp int64) {
	s.mutate(func(d *meter.PlayerRngData) {
		m := derefOrNew(d.Experimentation)
		m.StoredXp = storedXp
		d.Experimentation = &m
	})
}

// UpdateExperimentationSelection sets the selected drop and goal on the
// experimentation meter
func (s *Store) UpdateExperimentationSelection(item string, goalXp *int64) {
	s.mutate(func(d *meter.PlayerRngData) {
		m := derefOrNew(d.Experimentation)
		m.SelectedItem = item
		m.GoalXp = copyGoal(goalXp)
		d.Experimentation = &m
	})
}

// UpdateMineshaftPity sets the mineshaft pity counter. Callers validate the
// [0, MaxMineshaftPity] range before committing.
func (s *Store) UpdateMineshaftPity(value int64) {
	s.mutate(func(d *meter.PlayerRngData) {
		d.MineshaftPity = &meter.MineshaftPity{PityValue: value}
	})
}

// Clear discards the whole aggregate and notifies listeners with the empty
// snapshot
func (s *Store) Clear() {
	s.mutate(func(d *meter.PlayerRngData) {
		*d = meter.PlayerRngData{}
	})
}

// mutate applies fn under the write lock, then notifies listeners with a
// deep copy of the result outside the lock.
func (s *Store) mutate(fn func(*meter.PlayerRngData)) {
	s.mu.Lock()
	fn(&s.data)
	snapshot := s.data.Clone()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		notify(l, snapshot)
	}
}

// notify isolates listener panics so one failing subscriber cannot block the
// others or propagate back to the mutator
func notify(l Listener, snapshot meter.PlayerRngData) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Store listener panicked", "error", r)
		}
	}()
	l(snapshot)
}

func copyGoal(goalXp *int64) *int64 {
	if goalXp == nil {
		return nil
	}
	g := *goalXp
	return &g
}

func derefOrNew(m *meter.Meter) meter.Meter {
	if m == nil {
		return meter.Meter{}
	}
	return *m
}
