package topics

const (
	BetPlaced     = "bet_placed"
	EventResolved = "event_resolved"
)
