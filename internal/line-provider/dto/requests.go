package dto

import "github.com/shopspring/decimal"

type CreateEventRequest struct {
	EventID     string          `json:"event_id"`
	Coefficient decimal.Decimal `json:"coefficient"`
	Deadline    int64           `json:"deadline"` // segundos a partir de agora
}

// UpdateEventRequest usa ponteiros: campo ausente = não alterar.
type UpdateEventRequest struct {
	Coefficient *decimal.Decimal `json:"coefficient,omitempty"`
	Deadline    *int64           `json:"deadline,omitempty"` // unix seconds, absoluto
	State       *string          `json:"state,omitempty"`
}
