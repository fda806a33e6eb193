package dto

import "github.com/shopspring/decimal"

type CreateBetRequest struct {
	BetID   string          `json:"bet_id"`
	EventID string          `json:"event_id"`
	Amount  decimal.Decimal `json:"amount"`
}
