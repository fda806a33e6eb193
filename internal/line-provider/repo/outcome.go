package repo

import "math/rand"

// OutcomeSource decide o desfecho de um evento vencido. Não existe
// oráculo real de resultado; o default sorteia uniformemente.
// Testes injetam uma fonte determinística.
type OutcomeSource func() EventState

func RandomOutcome() EventState {
	if rand.Intn(2) == 0 {
		return StateFinishedWin
	}
	return StateFinishedLose
}
