package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/bet-line-platform/internal/bet-maker/lineprovider"
	"github.com/radieske/bet-line-platform/internal/bet-maker/repo"
	"github.com/radieske/bet-line-platform/internal/shared/metrics"
	cevents "github.com/radieske/bet-line-platform/pkg/contracts/events"
)

// BetStore é o que o serviço precisa da camada de persistência.
type BetStore interface {
	ListAll(ctx context.Context) ([]repo.Bet, error)
	GetByEventID(ctx context.Context, eventID string) (repo.Bet, error)
	Insert(ctx context.Context, b repo.Bet) (repo.Bet, error)
	Reconcile(ctx context.Context, resolved map[string]string) (settled int64, err error)
}

// EventFeed é a visão remota dos eventos do line-provider.
type EventFeed interface {
	FetchActive(ctx context.Context) ([]lineprovider.ActiveEvent, error)
	FetchResolved(ctx context.Context) (map[string]string, error)
}

// Publisher emite o contrato bet_placed; nil desliga a publicação.
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e cevents.BetPlaced) error
}

var (
	ErrEventNotFound = errors.New("event does not exist or is not active")
	ErrDuplicateBet  = errors.New("bet already exists for this event")
)

// ValidationError sinaliza entrada malformada, com o campo ofensor.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewBet é a entrada de criação de aposta.
type NewBet struct {
	BetID   string
	EventID string
	Amount  decimal.Decimal
}

type Bets struct {
	log   *zap.Logger
	store BetStore
	feed  EventFeed
	publ  Publisher
}

func NewBets(log *zap.Logger, store BetStore, feed EventFeed, publ Publisher) *Bets {
	return &Bets{log: log, store: store, feed: feed, publ: publ}
}

// GetActiveEvents repassa o snapshot de eventos ativos do feed.
func (s *Bets) GetActiveEvents(ctx context.Context) ([]lineprovider.ActiveEvent, error) {
	return s.feed.FetchActive(ctx)
}

// CreateBet valida, confere o evento no feed e grava a aposta.
// As checagens contra o feed e contra o próprio banco são consultivas:
// duas criações concorrentes pro mesmo evento podem passar pelas duas;
// o unique do store decide, e o conflito volta como ErrDuplicateBet.
func (s *Bets) CreateBet(ctx context.Context, in NewBet) (repo.Bet, error) {
	if err := validate(in); err != nil {
		return repo.Bet{}, err
	}

	active, err := s.feed.FetchActive(ctx)
	if err != nil {
		return repo.Bet{}, err
	}
	if !containsEvent(active, in.EventID) {
		return repo.Bet{}, ErrEventNotFound
	}

	if _, err := s.store.GetByEventID(ctx, in.EventID); err == nil {
		return repo.Bet{}, ErrDuplicateBet
	} else if !errors.Is(err, repo.ErrNotFound) {
		return repo.Bet{}, err
	}

	created, err := s.store.Insert(ctx, repo.Bet{
		BetID:   in.BetID,
		EventID: in.EventID,
		Amount:  in.Amount,
		Status:  repo.StatusNew,
	})
	if errors.Is(err, repo.ErrConflict) {
		return repo.Bet{}, ErrDuplicateBet
	}
	if err != nil {
		return repo.Bet{}, err
	}

	metrics.BetsCreated.Inc()
	if s.publ != nil {
		msg := cevents.BetPlaced{
			BetID:    created.BetID,
			EventID:  created.EventID,
			Amount:   created.Amount.StringFixed(2),
			TsUnixMs: time.Now().UnixMilli(),
		}
		if perr := s.publ.PublishBetPlaced(ctx, msg); perr != nil {
			// a aposta já está gravada; publicação é best-effort
			s.log.Warn("publish bet_placed", zap.String("betId", created.BetID), zap.Error(perr))
		}
	}
	return created, nil
}

// GetHistory liquida as pendências contra o snapshot de resolvidos e
// devolve todas as apostas. A liquidação roda a cada leitura; não há
// job de fundo. Feed fora do ar aborta a leitura em vez de fingir que
// não há eventos resolvidos.
func (s *Bets) GetHistory(ctx context.Context) ([]repo.Bet, error) {
	resolved, err := s.feed.FetchResolved(ctx)
	if err != nil {
		return nil, err
	}

	settled, err := s.store.Reconcile(ctx, resolved)
	if err != nil {
		return nil, err
	}
	if settled > 0 {
		metrics.BetsSettled.Add(float64(settled))
		s.log.Info("bets settled", zap.Int64("count", settled))
	}

	return s.store.ListAll(ctx)
}

func validate(in NewBet) error {
	if in.BetID == "" {
		return &ValidationError{Field: "bet_id", Reason: "required"}
	}
	if in.EventID == "" {
		return &ValidationError{Field: "event_id", Reason: "required"}
	}
	if !in.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if !in.Amount.Equal(in.Amount.Truncate(2)) {
		return &ValidationError{Field: "amount", Reason: "no more than two decimal places"}
	}
	return nil
}

func containsEvent(active []lineprovider.ActiveEvent, eventID string) bool {
	for _, e := range active {
		if e.EventID == eventID {
			return true
		}
	}
	return false
}
