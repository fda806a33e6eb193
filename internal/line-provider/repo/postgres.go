package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Postgres implementa a persistência de eventos em banco Postgres
type Postgres struct {
	db      *sql.DB
	outcome OutcomeSource
}

// NewPostgres retorna uma instância do repositório de eventos
func NewPostgres(db *sql.DB, outcome OutcomeSource) *Postgres {
	if outcome == nil {
		outcome = RandomOutcome
	}
	return &Postgres{db: db, outcome: outcome}
}

const eventColumns = `id, event_id, coefficient, deadline, state`

// GetActive retorna eventos com deadline ainda no futuro, qualquer estado
func (p *Postgres) GetActive(ctx context.Context, now int64) ([]Event, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE deadline > $1`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// GetByID retorna um evento pelo event_id de negócio
func (p *Postgres) GetByID(ctx context.Context, eventID string) (Event, error) {
	var e Event
	err := p.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE event_id=$1`, eventID).
		Scan(&e.ID, &e.EventID, &e.Coefficient, &e.Deadline, &e.State)
	if err == sql.ErrNoRows {
		return Event{}, ErrNotFound
	}
	return e, err
}

// GetPast resolve eventos vencidos ainda em NEW e retorna todos os eventos
// passados, do deadline mais recente pro mais antigo. Tudo numa transação
// só: nenhum leitor concorrente enxerga um lote meio resolvido, e a
// segunda chamada não encontra mais nada em NEW (idempotente).
// Também retorna os eventos resolvidos nesta chamada, pro serviço publicar.
func (p *Postgres) GetPast(ctx context.Context, now int64) (past []Event, resolved []Event, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE state=$1 AND deadline < $2 FOR UPDATE`,
		StateNew, now)
	if err != nil {
		return nil, nil, err
	}
	pending, err := scanEvents(rows)
	if err != nil {
		return nil, nil, err
	}

	for _, e := range pending {
		// cada evento sorteia seu desfecho de forma independente
		e.State = p.outcome()
		if _, err = tx.ExecContext(ctx,
			`UPDATE events SET state=$1 WHERE id=$2`, e.State, e.ID); err != nil {
			return nil, nil, err
		}
		resolved = append(resolved, e)
	}

	rows, err = tx.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE deadline < $1 ORDER BY deadline DESC`, now)
	if err != nil {
		return nil, nil, err
	}
	if past, err = scanEvents(rows); err != nil {
		return nil, nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}
	return past, resolved, nil
}

// Create insere um evento novo; o unique de event_id é o árbitro final
func (p *Postgres) Create(ctx context.Context, e Event) (Event, error) {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO events (event_id, coefficient, deadline, state)
		 VALUES ($1,$2,$3,$4) RETURNING id`,
		e.EventID, e.Coefficient, e.Deadline, e.State).Scan(&e.ID)
	if isUniqueViolation(err) {
		return Event{}, ErrConflict
	}
	if err != nil {
		return Event{}, err
	}
	return e, nil
}

// Update aplica só os campos presentes no patch (semântica parcial)
func (p *Postgres) Update(ctx context.Context, eventID string, patch EventPatch) (Event, error) {
	var e Event
	err := p.db.QueryRowContext(ctx, `
		UPDATE events SET
			coefficient = COALESCE($2, coefficient),
			deadline    = COALESCE($3, deadline),
			state       = COALESCE($4, state)
		WHERE event_id=$1
		RETURNING `+eventColumns,
		eventID, patch.Coefficient, patch.Deadline, patch.State).
		Scan(&e.ID, &e.EventID, &e.Coefficient, &e.Deadline, &e.State)
	if err == sql.ErrNoRows {
		return Event{}, ErrNotFound
	}
	return e, err
}

// Delete remove um evento pelo event_id
func (p *Postgres) Delete(ctx context.Context, eventID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM events WHERE event_id=$1`, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.EventID, &e.Coefficient, &e.Deadline, &e.State); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// isUniqueViolation detecta o código 23505 do Postgres
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
