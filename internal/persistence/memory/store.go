// Package memory is an in-process implementation of the persistence
// interfaces used by service tests and ephemeral deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/persistence"
	"github.com/example/smart-calendar/internal/suggest"
)

var (
	_ persistence.EventRepository = (*Store)(nil)
	_ persistence.DismissalStore  = (*Store)(nil)
	_ persistence.SignalSource    = (*Store)(nil)
	_ persistence.SignalWriter    = (*Store)(nil)
)

// Store keeps events, dismissals and signal records in maps guarded by a
// single lock.
type Store struct {
	mu         sync.RWMutex
	events     map[string]calendar.Event
	dismissals map[string]map[string]persistence.Dismissal
	signals    map[string]suggest.Snapshot
}

// New returns an empty store.
func New() *Store {
	return &Store{
		events:     make(map[string]calendar.Event),
		dismissals: make(map[string]map[string]persistence.Dismissal),
		signals:    make(map[string]suggest.Snapshot),
	}
}

// --- EventRepository implementation ---

// ListEvents returns the owner's events ordered by start date then id.
func (s *Store) ListEvents(ctx context.Context, ownerID string, filter persistence.EventFilter) ([]calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]calendar.Event, 0)
	for _, e := range s.events {
		if e.OwnerID != ownerID || !filter.Matches(e) {
			continue
		}
		events = append(events, cloneEvent(e))
	}

	sort.Slice(events, func(i, j int) bool {
		if c := events[i].StartDate.Compare(events[j].StartDate); c != 0 {
			return c < 0
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

// GetEvent retrieves an event by id.
func (s *Store) GetEvent(ctx context.Context, ownerID, id string) (calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok || e.OwnerID != ownerID {
		return calendar.Event{}, persistence.ErrNotFound
	}
	return cloneEvent(e), nil
}

// CreateEvent stores a new event.
func (s *Store) CreateEvent(ctx context.Context, event calendar.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.ID]; ok {
		return fmt.Errorf("memory: event %s: %w", event.ID, persistence.ErrDuplicate)
	}
	if err := s.ensureUniqueSuggestionLocked(event); err != nil {
		return err
	}

	s.events[event.ID] = cloneEvent(event)
	return nil
}

// UpdateEvent replaces an existing event. Owner and creation time are kept.
func (s *Store) UpdateEvent(ctx context.Context, event calendar.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.events[event.ID]
	if !ok || existing.OwnerID != event.OwnerID {
		return persistence.ErrNotFound
	}
	if err := s.ensureUniqueSuggestionLocked(event); err != nil {
		return err
	}

	event.CreatedAt = existing.CreatedAt
	s.events[event.ID] = cloneEvent(event)
	return nil
}

// DeleteEvent removes an event by id.
func (s *Store) DeleteEvent(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok || e.OwnerID != ownerID {
		return persistence.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

// TemplateKeys returns the owner's distinct template keys, sorted.
func (s *Store) TemplateKeys(ctx context.Context, ownerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range s.events {
		if e.OwnerID == ownerID && e.TemplateKey != "" {
			seen[e.TemplateKey] = struct{}{}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) ensureUniqueSuggestionLocked(event calendar.Event) error {
	if !event.IsSuggested || event.TemplateKey == "" {
		return nil
	}
	for id, e := range s.events {
		if id == event.ID {
			continue
		}
		if e.OwnerID == event.OwnerID && e.IsSuggested && e.TemplateKey == event.TemplateKey {
			return fmt.Errorf("memory: template key %s: %w", event.TemplateKey, persistence.ErrDuplicate)
		}
	}
	return nil
}

// --- DismissalStore implementation ---

// DismissedKeys returns the owner's dismissed keys, sorted.
func (s *Store) DismissedKeys(ctx context.Context, ownerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.dismissals[ownerID]))
	for k := range s.dismissals[ownerID] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// AddDismissal records a dismissal, replacing any earlier one for the key.
func (s *Store) AddDismissal(ctx context.Context, dismissal persistence.Dismissal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey, ok := s.dismissals[dismissal.OwnerID]
	if !ok {
		byKey = make(map[string]persistence.Dismissal)
		s.dismissals[dismissal.OwnerID] = byKey
	}
	byKey[dismissal.Key] = dismissal
	return nil
}

// --- SignalSource implementation ---

// Snapshot returns a copy of the owner's signal records.
func (s *Store) Snapshot(ctx context.Context, ownerID string) (suggest.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.signals[ownerID]
	return suggest.Snapshot{
		Leases:     append([]suggest.Lease(nil), snap.Leases...),
		Warranties: append([]suggest.Warranty(nil), snap.Warranties...),
		Policies:   append([]suggest.InsurancePolicy(nil), snap.Policies...),
		Documents:  append([]suggest.Document(nil), snap.Documents...),
	}, nil
}

// SaveSnapshot upserts the owner's signal records by id. Records missing
// from snap are kept.
func (s *Store) SaveSnapshot(ctx context.Context, ownerID string, snap suggest.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.signals[ownerID]
	cur.Leases = upsert(cur.Leases, snap.Leases, func(l suggest.Lease) string { return l.ID })
	cur.Warranties = upsert(cur.Warranties, snap.Warranties, func(w suggest.Warranty) string { return w.ID })
	cur.Policies = upsert(cur.Policies, snap.Policies, func(p suggest.InsurancePolicy) string { return p.ID })
	cur.Documents = upsert(cur.Documents, snap.Documents, func(d suggest.Document) string { return d.ID })
	s.signals[ownerID] = cur
	return nil
}

func upsert[T any](current, incoming []T, id func(T) string) []T {
	out := append([]T(nil), current...)
	index := make(map[string]int, len(out))
	for i, v := range out {
		index[id(v)] = i
	}
	for _, v := range incoming {
		if i, ok := index[id(v)]; ok {
			out[i] = v
			continue
		}
		index[id(v)] = len(out)
		out = append(out, v)
	}
	return out
}

func cloneEvent(e calendar.Event) calendar.Event {
	out := e
	out.EndDate = cloneDate(e.EndDate)
	out.CompletedOn = cloneDate(e.CompletedOn)
	if e.LinkedPropertyID != nil {
		id := *e.LinkedPropertyID
		out.LinkedPropertyID = &id
	}
	return out
}

func cloneDate(d *civil.Date) *civil.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
