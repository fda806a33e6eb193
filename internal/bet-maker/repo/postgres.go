package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Postgres implementa a persistência de apostas em banco Postgres
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const betColumns = `id, bet_id, event_id, amount, status`

// ListAll retorna todas as apostas, liquidadas ou não
func (p *Postgres) ListAll(ctx context.Context) ([]Bet, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+betColumns+` FROM bets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanBets(rows)
}

// GetByEventID retorna a aposta associada a um evento, se existir
func (p *Postgres) GetByEventID(ctx context.Context, eventID string) (Bet, error) {
	var b Bet
	err := p.db.QueryRowContext(ctx,
		`SELECT `+betColumns+` FROM bets WHERE event_id=$1`, eventID).
		Scan(&b.ID, &b.BetID, &b.EventID, &b.Amount, &b.Status)
	if err == sql.ErrNoRows {
		return Bet{}, ErrNotFound
	}
	return b, err
}

// Insert grava uma aposta nova. Os uniques de bet_id e event_id são o
// árbitro final da corrida entre criações concorrentes.
func (p *Postgres) Insert(ctx context.Context, b Bet) (Bet, error) {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO bets (bet_id, event_id, amount, status)
		 VALUES ($1,$2,$3,$4) RETURNING id`,
		b.BetID, b.EventID, b.Amount, b.Status).Scan(&b.ID)
	if isUniqueViolation(err) {
		return Bet{}, ErrConflict
	}
	if err != nil {
		return Bet{}, err
	}
	return b, nil
}

// Reconcile liquida as apostas pendentes contra o snapshot de eventos
// resolvidos. Uma transação só; apostas cujo evento não está no snapshot
// continuam pendentes. Repetir com o mesmo snapshot não muda nada,
// porque aposta liquidada sai do predicado status=NEW.
func (p *Postgres) Reconcile(ctx context.Context, resolved map[string]string) (settled int64, err error) {
	if len(resolved) == 0 {
		return 0, nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, event_id FROM bets WHERE status=$1 FOR UPDATE`, StatusNew)
	if err != nil {
		return 0, err
	}
	type pending struct {
		id      int64
		eventID string
	}
	var toSettle []pending
	for rows.Next() {
		var row pending
		if err := rows.Scan(&row.id, &row.eventID); err != nil {
			rows.Close()
			return 0, err
		}
		toSettle = append(toSettle, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, b := range toSettle {
		state, ok := resolved[b.eventID]
		if !ok {
			continue
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE bets SET status=$1 WHERE id=$2`, settleStatus(state), b.id); err != nil {
			return 0, err
		}
		settled++
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return settled, nil
}

func scanBets(rows *sql.Rows) ([]Bet, error) {
	defer rows.Close()
	var out []Bet
	for rows.Next() {
		var b Bet
		if err := rows.Scan(&b.ID, &b.BetID, &b.EventID, &b.Amount, &b.Status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// isUniqueViolation detecta o código 23505 do Postgres
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
