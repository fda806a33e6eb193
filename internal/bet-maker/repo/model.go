package repo

import (
	"errors"

	"github.com/shopspring/decimal"
)

// BetStatus espelha o estado do evento referenciado assim que ele
// é observado resolvido no feed remoto.
type BetStatus string

const (
	StatusNew          BetStatus = "NEW"
	StatusFinishedWin  BetStatus = "FINISHED_WIN"
	StatusFinishedLose BetStatus = "FINISHED_LOSE"
)

// Bet é o modelo persistido no Postgres.
// event_id referencia o evento do line-provider; não existe FK, a
// integridade atravessa a rede e é responsabilidade do serviço.
type Bet struct {
	ID      int64
	BetID   string
	EventID string
	Amount  decimal.Decimal
	Status  BetStatus
}

var (
	ErrNotFound = errors.New("bet not found")
	ErrConflict = errors.New("bet_id or event_id already taken")
)

// estado terminal vencedor no contrato do feed
const eventWin = "FINISHED_WIN"

// settleStatus mapeia o estado terminal de um evento pro status da aposta:
// vitória só quando o evento terminou em FINISHED_WIN, qualquer outro
// estado terminal é derrota.
func settleStatus(eventState string) BetStatus {
	if eventState == eventWin {
		return StatusFinishedWin
	}
	return StatusFinishedLose
}
