package repo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBet(betID, eventID string) Bet {
	return Bet{
		BetID:   betID,
		EventID: eventID,
		Amount:  decimal.RequireFromString("10.00"),
		Status:  StatusNew,
	}
}

func TestInsertRejectsDuplicateBetID(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Insert(ctx, newBet("b1", "e1"))
	require.NoError(t, err)

	_, err = store.Insert(ctx, newBet("b1", "e2"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestInsertRejectsSecondBetOnSameEvent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Insert(ctx, newBet("b1", "e1"))
	require.NoError(t, err)

	_, err = store.Insert(ctx, newBet("b2", "e1"))
	assert.ErrorIs(t, err, ErrConflict)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReconcileSettlesPendingBets(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Insert(ctx, newBet("b1", "e1"))
	require.NoError(t, err)
	_, err = store.Insert(ctx, newBet("b2", "e2"))
	require.NoError(t, err)
	_, err = store.Insert(ctx, newBet("b3", "e3")) // evento ainda aberto
	require.NoError(t, err)

	settled, err := store.Reconcile(ctx, map[string]string{
		"e1": "FINISHED_WIN",
		"e2": "FINISHED_LOSE",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), settled)

	byEvent := map[string]BetStatus{}
	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	for _, b := range all {
		byEvent[b.EventID] = b.Status
	}
	assert.Equal(t, StatusFinishedWin, byEvent["e1"])
	assert.Equal(t, StatusFinishedLose, byEvent["e2"])
	assert.Equal(t, StatusNew, byEvent["e3"], "evento fora do snapshot continua pendente")
}

func TestReconcileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Insert(ctx, newBet("b1", "e1"))
	require.NoError(t, err)

	snapshot := map[string]string{"e1": "FINISHED_WIN"}

	settled, err := store.Reconcile(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, int64(1), settled)

	settled, err = store.Reconcile(ctx, snapshot)
	require.NoError(t, err)
	assert.Zero(t, settled, "aposta liquidada sai do predicado NEW")
}

func TestSettleStatusMapping(t *testing.T) {
	assert.Equal(t, StatusFinishedWin, settleStatus("FINISHED_WIN"))
	// qualquer outro estado terminal observado é derrota
	assert.Equal(t, StatusFinishedLose, settleStatus("FINISHED_LOSE"))
}

func TestGetByEventID(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.GetByEventID(ctx, "e1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Insert(ctx, newBet("b1", "e1"))
	require.NoError(t, err)

	b, err := store.GetByEventID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.BetID)
}
