package events

// Evento publicado no tópico "event_resolved" quando o line-provider
// sorteia o desfecho de um evento vencido.
type EventResolved struct {
	MessageID string `json:"message_id"`
	EventID   string `json:"event_id"`
	State     string `json:"state"` // "FINISHED_WIN" | "FINISHED_LOSE"
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
