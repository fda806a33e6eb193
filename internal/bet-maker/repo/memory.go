package repo

import (
	"context"
	"sort"
	"sync"
)

// Memory guarda apostas num map protegido por mutex, com as mesmas
// regras de unicidade do Postgres. Usado pelos testes.
type Memory struct {
	mu     sync.Mutex
	byBet  map[string]*Bet // por bet_id
	nextID int64
}

func NewMemory() *Memory {
	return &Memory{byBet: make(map[string]*Bet), nextID: 1}
}

func (m *Memory) ListAll(ctx context.Context) ([]Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Bet, 0, len(m.byBet))
	for _, b := range m.byBet {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetByEventID(ctx context.Context, eventID string) (Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.byBet {
		if b.EventID == eventID {
			return *b, nil
		}
	}
	return Bet{}, ErrNotFound
}

func (m *Memory) Insert(ctx context.Context, b Bet) (Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byBet[b.BetID]; ok {
		return Bet{}, ErrConflict
	}
	for _, other := range m.byBet {
		if other.EventID == b.EventID {
			return Bet{}, ErrConflict
		}
	}
	b.ID = m.nextID
	m.nextID++
	stored := b
	m.byBet[b.BetID] = &stored
	return b, nil
}

func (m *Memory) Reconcile(ctx context.Context, resolved map[string]string) (settled int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.byBet {
		if b.Status != StatusNew {
			continue
		}
		state, ok := resolved[b.EventID]
		if !ok {
			continue
		}
		b.Status = settleStatus(state)
		settled++
	}
	return settled, nil
}
