package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/bet-line-platform/internal/bet-maker/lineprovider"
	"github.com/radieske/bet-line-platform/internal/bet-maker/repo"
)

type fakeFeed struct {
	active      []lineprovider.ActiveEvent
	resolved    map[string]string
	activeErr   error
	resolvedErr error
}

func (f *fakeFeed) FetchActive(context.Context) ([]lineprovider.ActiveEvent, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.active, nil
}

func (f *fakeFeed) FetchResolved(context.Context) (map[string]string, error) {
	if f.resolvedErr != nil {
		return nil, f.resolvedErr
	}
	return f.resolved, nil
}

func activeEvent(id string) lineprovider.ActiveEvent {
	return lineprovider.ActiveEvent{
		EventID:     id,
		Coefficient: decimal.RequireFromString("1.85"),
		Deadline:    1_700_000_000,
		State:       "NEW",
	}
}

func newBet(betID, eventID, amount string) NewBet {
	return NewBet{BetID: betID, EventID: eventID, Amount: decimal.RequireFromString(amount)}
}

func TestCreateBetHappyPath(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemory()
	feed := &fakeFeed{active: []lineprovider.ActiveEvent{activeEvent("e1")}}
	svc := NewBets(zap.NewNop(), store, feed, nil)

	created, err := svc.CreateBet(ctx, newBet("b1", "e1", "10.00"))
	require.NoError(t, err)

	assert.Equal(t, "b1", created.BetID)
	assert.Equal(t, repo.StatusNew, created.Status)
	assert.Equal(t, "10.00", created.Amount.StringFixed(2))
}

func TestCreateBetUnknownEvent(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemory()
	feed := &fakeFeed{active: []lineprovider.ActiveEvent{activeEvent("e1")}}
	svc := NewBets(zap.NewNop(), store, feed, nil)

	_, err := svc.CreateBet(ctx, newBet("b1", "ghost", "10.00"))
	assert.ErrorIs(t, err, ErrEventNotFound)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "rejeição não pode deixar aposta gravada")
}

func TestCreateBetDuplicateEvent(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemory()
	feed := &fakeFeed{active: []lineprovider.ActiveEvent{activeEvent("e1")}}
	svc := NewBets(zap.NewNop(), store, feed, nil)

	_, err := svc.CreateBet(ctx, newBet("b1", "e1", "10.00"))
	require.NoError(t, err)

	_, err = svc.CreateBet(ctx, newBet("b2", "e1", "5.00"))
	assert.ErrorIs(t, err, ErrDuplicateBet)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateBetStoreConflictBecomesDuplicate(t *testing.T) {
	// janela da corrida: pré-checagem não viu nada, insert conflitou
	ctx := context.Background()
	store := &racyBetStore{Memory: repo.NewMemory()}
	feed := &fakeFeed{active: []lineprovider.ActiveEvent{activeEvent("e1")}}
	svc := NewBets(zap.NewNop(), store, feed, nil)

	_, err := svc.CreateBet(ctx, newBet("b1", "e1", "10.00"))
	assert.ErrorIs(t, err, ErrDuplicateBet)
}

type racyBetStore struct{ *repo.Memory }

func (s *racyBetStore) GetByEventID(ctx context.Context, eventID string) (repo.Bet, error) {
	return repo.Bet{}, repo.ErrNotFound
}

func (s *racyBetStore) Insert(ctx context.Context, b repo.Bet) (repo.Bet, error) {
	return repo.Bet{}, repo.ErrConflict
}

func TestCreateBetAmountValidation(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemory()
	feed := &fakeFeed{active: []lineprovider.ActiveEvent{activeEvent("e1")}}
	svc := NewBets(zap.NewNop(), store, feed, nil)

	var verr *ValidationError

	_, err := svc.CreateBet(ctx, newBet("b1", "e1", "10.005"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)

	_, err = svc.CreateBet(ctx, newBet("b1", "e1", "-1"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)

	_, err = svc.CreateBet(ctx, newBet("b1", "e1", "0"))
	require.ErrorAs(t, err, &verr)

	created, err := svc.CreateBet(ctx, newBet("b1", "e1", "10.00"))
	require.NoError(t, err)
	assert.Equal(t, "10.00", created.Amount.StringFixed(2))
}

func TestCreateBetUpstreamDown(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemory()
	feed := &fakeFeed{activeErr: lineprovider.ErrUpstreamUnavailable}
	svc := NewBets(zap.NewNop(), store, feed, nil)

	_, err := svc.CreateBet(ctx, newBet("b1", "e1", "10.00"))
	assert.ErrorIs(t, err, lineprovider.ErrUpstreamUnavailable)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetHistorySettlesBeforeListing(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemory()
	feed := &fakeFeed{
		active: []lineprovider.ActiveEvent{activeEvent("e1"), activeEvent("e2")},
	}
	svc := NewBets(zap.NewNop(), store, feed, nil)

	_, err := svc.CreateBet(ctx, newBet("b1", "e1", "10.00"))
	require.NoError(t, err)
	_, err = svc.CreateBet(ctx, newBet("b2", "e2", "7.50"))
	require.NoError(t, err)

	// e1 resolveu vencedor, e2 segue aberto
	feed.resolved = map[string]string{"e1": "FINISHED_WIN"}

	bets, err := svc.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, bets, 2)

	byBet := map[string]repo.BetStatus{}
	for _, b := range bets {
		byBet[b.BetID] = b.Status
	}
	assert.Equal(t, repo.StatusFinishedWin, byBet["b1"])
	assert.Equal(t, repo.StatusNew, byBet["b2"])

	// repetir com o mesmo snapshot não muda nada
	bets, err = svc.GetHistory(ctx)
	require.NoError(t, err)
	for _, b := range bets {
		assert.Equal(t, byBet[b.BetID], b.Status)
	}
}

func TestGetHistoryAbortsWhenUpstreamDown(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemory()
	feed := &fakeFeed{active: []lineprovider.ActiveEvent{activeEvent("e1")}}
	svc := NewBets(zap.NewNop(), store, feed, nil)

	_, err := svc.CreateBet(ctx, newBet("b1", "e1", "10.00"))
	require.NoError(t, err)

	feed.resolvedErr = lineprovider.ErrUpstreamUnavailable

	_, err = svc.GetHistory(ctx)
	assert.ErrorIs(t, err, lineprovider.ErrUpstreamUnavailable,
		"feed fora do ar não pode virar lista vazia")

	// aposta continua pendente
	b, err := store.GetByEventID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, repo.StatusNew, b.Status)
}
