package dto

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/bet-line-platform/internal/bet-maker/repo"
)

type BetResponse struct {
	ID      int64           `json:"id"`
	BetID   string          `json:"bet_id"`
	EventID string          `json:"event_id"`
	Amount  decimal.Decimal `json:"amount"`
	Status  string          `json:"status"`
}

func FromBet(b repo.Bet) BetResponse {
	return BetResponse{
		ID:      b.ID,
		BetID:   b.BetID,
		EventID: b.EventID,
		Amount:  b.Amount,
		Status:  string(b.Status),
	}
}

func FromBets(bets []repo.Bet) []BetResponse {
	out := make([]BetResponse, 0, len(bets))
	for _, b := range bets {
		out = append(out, FromBet(b))
	}
	return out
}
