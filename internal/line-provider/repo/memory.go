package repo

import (
	"context"
	"sort"
	"sync"
)

// Memory guarda eventos num map protegido por mutex. Mesmas regras do
// Postgres, sem banco: serve os testes e o modo standalone.
type Memory struct {
	mu      sync.Mutex
	events  map[string]Event // por event_id
	nextID  int64
	outcome OutcomeSource
}

func NewMemory(outcome OutcomeSource) *Memory {
	if outcome == nil {
		outcome = RandomOutcome
	}
	return &Memory{events: make(map[string]Event), nextID: 1, outcome: outcome}
}

func (m *Memory) GetActive(ctx context.Context, now int64) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.Deadline > now {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetByID(ctx context.Context, eventID string) (Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (m *Memory) GetPast(ctx context.Context, now int64) (past []Event, resolved []Event, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// resolve e lista sob o mesmo lock: equivalente à transação do Postgres
	for id, e := range m.events {
		if e.State == StateNew && e.Deadline < now {
			e.State = m.outcome()
			m.events[id] = e
			resolved = append(resolved, e)
		}
	}

	for _, e := range m.events {
		if e.Deadline < now {
			past = append(past, e)
		}
	}
	sort.Slice(past, func(i, j int) bool { return past[i].Deadline > past[j].Deadline })
	return past, resolved, nil
}

func (m *Memory) Create(ctx context.Context, e Event) (Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.EventID]; ok {
		return Event{}, ErrConflict
	}
	e.ID = m.nextID
	m.nextID++
	m.events[e.EventID] = e
	return e, nil
}

func (m *Memory) Update(ctx context.Context, eventID string, patch EventPatch) (Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return Event{}, ErrNotFound
	}
	if patch.Coefficient != nil {
		e.Coefficient = *patch.Coefficient
	}
	if patch.Deadline != nil {
		e.Deadline = *patch.Deadline
	}
	if patch.State != nil {
		e.State = *patch.State
	}
	m.events[eventID] = e
	return e, nil
}

func (m *Memory) Delete(ctx context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[eventID]; !ok {
		return ErrNotFound
	}
	delete(m.events, eventID)
	return nil
}
