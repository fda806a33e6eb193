package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/bet-line-platform/internal/line-provider/repo"
	"github.com/radieske/bet-line-platform/internal/shared/metrics"
	cevents "github.com/radieske/bet-line-platform/pkg/contracts/events"
)

// EventStore é o que o serviço precisa da camada de persistência.
// O tempo é sempre argumento explícito; o store nunca lê o relógio.
type EventStore interface {
	GetActive(ctx context.Context, now int64) ([]repo.Event, error)
	GetByID(ctx context.Context, eventID string) (repo.Event, error)
	GetPast(ctx context.Context, now int64) (past []repo.Event, resolved []repo.Event, err error)
	Create(ctx context.Context, e repo.Event) (repo.Event, error)
	Update(ctx context.Context, eventID string, patch repo.EventPatch) (repo.Event, error)
	Delete(ctx context.Context, eventID string) error
}

// Publisher emite o contrato event_resolved; nil desliga a publicação.
type Publisher interface {
	PublishEventResolved(ctx context.Context, e cevents.EventResolved) error
}

var (
	ErrNotFound       = errors.New("event not found")
	ErrDuplicateEvent = errors.New("event already exists")
)

// ValidationError sinaliza entrada malformada, com o campo ofensor.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewEvent é a entrada de criação: deadline relativo em segundos,
// convertido pra absoluto na hora da criação.
type NewEvent struct {
	EventID     string
	Coefficient decimal.Decimal
	DeadlineIn  int64
}

type Events struct {
	log   *zap.Logger
	store EventStore
	publ  Publisher
}

func NewEvents(log *zap.Logger, store EventStore, publ Publisher) *Events {
	return &Events{log: log, store: store, publ: publ}
}

// GetAllActive lista eventos cujo deadline ainda não passou.
func (s *Events) GetAllActive(ctx context.Context, now time.Time) ([]repo.Event, error) {
	return s.store.GetActive(ctx, now.Unix())
}

// GetByID busca um evento pelo event_id de negócio.
func (s *Events) GetByID(ctx context.Context, eventID string) (repo.Event, error) {
	e, err := s.store.GetByID(ctx, eventID)
	if errors.Is(err, repo.ErrNotFound) {
		return repo.Event{}, ErrNotFound
	}
	return e, err
}

// GetPast lista eventos vencidos, resolvendo antes os que ainda estavam
// em NEW. Cada desfecho recém-sorteado vira um event_resolved no Kafka.
func (s *Events) GetPast(ctx context.Context, now time.Time) ([]repo.Event, error) {
	past, resolved, err := s.store.GetPast(ctx, now.Unix())
	if err != nil {
		return nil, err
	}

	for _, e := range resolved {
		metrics.EventsResolved.Inc()
		if s.publ == nil {
			continue
		}
		msg := cevents.EventResolved{
			EventID:  e.EventID,
			State:    string(e.State),
			TsUnixMs: now.UnixMilli(),
		}
		if perr := s.publ.PublishEventResolved(ctx, msg); perr != nil {
			// publicação é best-effort; o estado já está persistido
			s.log.Warn("publish event_resolved", zap.String("eventId", e.EventID), zap.Error(perr))
		}
	}

	return past, nil
}

// Create insere um evento novo. O GetByID antes do insert é só rejeição
// barata; quem decide mesmo é o unique do store.
func (s *Events) Create(ctx context.Context, in NewEvent, now time.Time) (repo.Event, error) {
	if in.EventID == "" {
		return repo.Event{}, &ValidationError{Field: "event_id", Reason: "required"}
	}
	if !in.Coefficient.IsPositive() {
		return repo.Event{}, &ValidationError{Field: "coefficient", Reason: "must be positive"}
	}

	if _, err := s.store.GetByID(ctx, in.EventID); err == nil {
		return repo.Event{}, ErrDuplicateEvent
	} else if !errors.Is(err, repo.ErrNotFound) {
		return repo.Event{}, err
	}

	e := repo.Event{
		EventID:     in.EventID,
		Coefficient: in.Coefficient,
		Deadline:    now.Unix() + in.DeadlineIn,
		State:       repo.StateNew,
	}
	created, err := s.store.Create(ctx, e)
	if errors.Is(err, repo.ErrConflict) {
		return repo.Event{}, ErrDuplicateEvent
	}
	return created, err
}

// Update aplica um patch parcial a um evento existente.
func (s *Events) Update(ctx context.Context, eventID string, patch repo.EventPatch) (repo.Event, error) {
	if patch.Coefficient != nil && !patch.Coefficient.IsPositive() {
		return repo.Event{}, &ValidationError{Field: "coefficient", Reason: "must be positive"}
	}
	e, err := s.store.Update(ctx, eventID, patch)
	if errors.Is(err, repo.ErrNotFound) {
		return repo.Event{}, ErrNotFound
	}
	return e, err
}

// Delete remove um evento existente.
func (s *Events) Delete(ctx context.Context, eventID string) error {
	err := s.store.Delete(ctx, eventID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
