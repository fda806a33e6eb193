package repo

import (
	"errors"

	"github.com/shopspring/decimal"
)

// EventState é o ciclo de vida de um evento: NEW até o deadline,
// depois um dos dois estados finais. Nunca volta.
type EventState string

const (
	StateNew          EventState = "NEW"
	StateFinishedWin  EventState = "FINISHED_WIN"
	StateFinishedLose EventState = "FINISHED_LOSE"
)

// Finished indica se o estado é terminal.
func (s EventState) Finished() bool {
	return s == StateFinishedWin || s == StateFinishedLose
}

// Event é o modelo persistido no Postgres.
type Event struct {
	ID          int64
	EventID     string
	Coefficient decimal.Decimal
	Deadline    int64 // unix seconds, absoluto
	State       EventState
}

// EventPatch carrega apenas os campos a atualizar; nil = não mexer.
type EventPatch struct {
	Coefficient *decimal.Decimal
	Deadline    *int64
	State       *EventState
}

var (
	ErrNotFound = errors.New("event not found")
	ErrConflict = errors.New("event_id already exists")
)
