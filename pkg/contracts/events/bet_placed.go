package events

// Evento publicado no tópico "bet_placed" após uma aposta ser aceita.
type BetPlaced struct {
	MessageID string `json:"message_id"`
	BetID     string `json:"bet_id"`
	EventID   string `json:"event_id"`
	Amount    string `json:"amount"` // decimal serializado, duas casas
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
