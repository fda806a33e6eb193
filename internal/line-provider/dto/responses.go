package dto

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/bet-line-platform/internal/line-provider/repo"
)

type EventResponse struct {
	ID          int64           `json:"id"`
	EventID     string          `json:"event_id"`
	Coefficient decimal.Decimal `json:"coefficient"`
	Deadline    int64           `json:"deadline"`
	State       string          `json:"state"`
}

func FromEvent(e repo.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		EventID:     e.EventID,
		Coefficient: e.Coefficient,
		Deadline:    e.Deadline,
		State:       string(e.State),
	}
}

func FromEvents(events []repo.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, FromEvent(e))
	}
	return out
}
