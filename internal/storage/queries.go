package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// TicketRow is one tickets row joined with whichever detail table matches.
type TicketRow struct {
	ID            int64
	TicketType    string
	SerialNumber  sql.NullString
	PurchaseDate  int64
	PriceCents    int64
	StoreName     sql.NullString
	StoreLocation sql.NullString
	Status        string
	PrizeCents    sql.NullInt64
	Notes         sql.NullString
	CreatedAt     int64
	ModifiedAt    sql.NullInt64

	GameName     sql.NullString
	GameNumber   sql.NullString
	TicketNumber sql.NullInt64

	GameType        sql.NullString
	CustomGameName  sql.NullString
	NumbersSelected sql.NullString
	BonusNumbers    sql.NullString
	DrawDate        sql.NullInt64
	QuickPick       sql.NullBool
	NumberOfDraws   sql.NullInt64
}

const selectTickets = `
SELECT t.id, t.ticket_type, t.serial_number, t.purchase_date, t.price_cents,
       t.store_name, t.store_location, t.status, t.prize_cents, t.notes,
       t.created_at, t.modified_at,
       s.game_name, s.game_number, s.ticket_number,
       d.game_type, d.custom_game_name, d.numbers_selected, d.bonus_numbers,
       d.draw_date, d.quick_pick, d.number_of_draws
FROM tickets t
LEFT JOIN scratch_off_tickets s ON s.ticket_id = t.id
LEFT JOIN draw_game_tickets d ON d.ticket_id = t.id
`

const orderNewestFirst = `ORDER BY t.purchase_date DESC, t.id DESC`

func scanTicketRow(sc interface{ Scan(dest ...any) error }) (TicketRow, error) {
	var r TicketRow
	err := sc.Scan(
		&r.ID, &r.TicketType, &r.SerialNumber, &r.PurchaseDate, &r.PriceCents,
		&r.StoreName, &r.StoreLocation, &r.Status, &r.PrizeCents, &r.Notes,
		&r.CreatedAt, &r.ModifiedAt,
		&r.GameName, &r.GameNumber, &r.TicketNumber,
		&r.GameType, &r.CustomGameName, &r.NumbersSelected, &r.BonusNumbers,
		&r.DrawDate, &r.QuickPick, &r.NumberOfDraws,
	)
	return r, err
}

func (q *Queries) listTicketRows(ctx context.Context, where string, args ...any) ([]TicketRow, error) {
	rows, err := q.db.QueryContext(ctx, selectTickets+where+"\n"+orderNewestFirst, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TicketRow
	for rows.Next() {
		r, err := scanTicketRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) ListTickets(ctx context.Context) ([]TicketRow, error) {
	return q.listTicketRows(ctx, "")
}

func (q *Queries) ListTicketsByType(ctx context.Context, ticketType string) ([]TicketRow, error) {
	return q.listTicketRows(ctx, "WHERE t.ticket_type = ?", ticketType)
}

func (q *Queries) ListTicketsByStatus(ctx context.Context, status string) ([]TicketRow, error) {
	return q.listTicketRows(ctx, "WHERE t.status = ?", status)
}

func (q *Queries) ListTicketsByDateRange(ctx context.Context, start, end int64) ([]TicketRow, error) {
	return q.listTicketRows(ctx, "WHERE t.purchase_date >= ? AND t.purchase_date <= ?", start, end)
}

func (q *Queries) GetTicket(ctx context.Context, id int64) (TicketRow, error) {
	return scanTicketRow(q.db.QueryRowContext(ctx, selectTickets+"WHERE t.id = ?", id))
}

// GetTicketBySerial returns the oldest ticket recorded with the serial.
func (q *Queries) GetTicketBySerial(ctx context.Context, serial string) (TicketRow, error) {
	return scanTicketRow(q.db.QueryRowContext(ctx,
		selectTickets+"WHERE t.serial_number = ? ORDER BY t.id LIMIT 1", serial))
}

type CreateTicketParams struct {
	TicketType    string
	SerialNumber  sql.NullString
	PurchaseDate  int64
	PriceCents    int64
	StoreName     sql.NullString
	StoreLocation sql.NullString
	Status        string
	PrizeCents    sql.NullInt64
	Notes         sql.NullString
	CreatedAt     int64
}

const createTicket = `
INSERT INTO tickets (
    ticket_type, serial_number, purchase_date, price_cents, store_name,
    store_location, status, prize_cents, notes, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateTicket(ctx context.Context, arg CreateTicketParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createTicket,
		arg.TicketType, arg.SerialNumber, arg.PurchaseDate, arg.PriceCents, arg.StoreName,
		arg.StoreLocation, arg.Status, arg.PrizeCents, arg.Notes, arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type UpdateTicketParams struct {
	ID            int64
	SerialNumber  sql.NullString
	PurchaseDate  int64
	PriceCents    int64
	StoreName     sql.NullString
	StoreLocation sql.NullString
	Status        string
	PrizeCents    sql.NullInt64
	Notes         sql.NullString
	ModifiedAt    int64
}

const updateTicket = `
UPDATE tickets
SET serial_number = ?, purchase_date = ?, price_cents = ?, store_name = ?,
    store_location = ?, status = ?, prize_cents = ?, notes = ?, modified_at = ?
WHERE id = ?
`

func (q *Queries) UpdateTicket(ctx context.Context, arg UpdateTicketParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTicket,
		arg.SerialNumber, arg.PurchaseDate, arg.PriceCents, arg.StoreName,
		arg.StoreLocation, arg.Status, arg.PrizeCents, arg.Notes, arg.ModifiedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ScratchOffParams struct {
	TicketID     int64
	GameName     string
	GameNumber   sql.NullString
	TicketNumber sql.NullInt64
}

const upsertScratchOff = `
INSERT INTO scratch_off_tickets (ticket_id, game_name, game_number, ticket_number)
VALUES (?, ?, ?, ?)
ON CONFLICT (ticket_id) DO UPDATE SET
    game_name = excluded.game_name,
    game_number = excluded.game_number,
    ticket_number = excluded.ticket_number
`

func (q *Queries) UpsertScratchOff(ctx context.Context, arg ScratchOffParams) error {
	_, err := q.db.ExecContext(ctx, upsertScratchOff, arg.TicketID, arg.GameName, arg.GameNumber, arg.TicketNumber)
	return err
}

type DrawGameParams struct {
	TicketID        int64
	GameType        string
	CustomGameName  sql.NullString
	NumbersSelected string
	BonusNumbers    sql.NullString
	DrawDate        sql.NullInt64
	QuickPick       bool
	NumberOfDraws   int64
}

const upsertDrawGame = `
INSERT INTO draw_game_tickets (
    ticket_id, game_type, custom_game_name, numbers_selected, bonus_numbers,
    draw_date, quick_pick, number_of_draws
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (ticket_id) DO UPDATE SET
    game_type = excluded.game_type,
    custom_game_name = excluded.custom_game_name,
    numbers_selected = excluded.numbers_selected,
    bonus_numbers = excluded.bonus_numbers,
    draw_date = excluded.draw_date,
    quick_pick = excluded.quick_pick,
    number_of_draws = excluded.number_of_draws
`

func (q *Queries) UpsertDrawGame(ctx context.Context, arg DrawGameParams) error {
	_, err := q.db.ExecContext(ctx, upsertDrawGame,
		arg.TicketID, arg.GameType, arg.CustomGameName, arg.NumbersSelected, arg.BonusNumbers,
		arg.DrawDate, arg.QuickPick, arg.NumberOfDraws,
	)
	return err
}

func (q *Queries) GetTicketType(ctx context.Context, id int64) (string, error) {
	var tt string
	err := q.db.QueryRowContext(ctx, `SELECT ticket_type FROM tickets WHERE id = ?`, id).Scan(&tt)
	return tt, err
}

// DeleteTicket removes the ticket and its detail row.
func (q *Queries) DeleteTicket(ctx context.Context, id int64) (int64, error) {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM scratch_off_tickets WHERE ticket_id = ?`, id); err != nil {
		return 0, err
	}
	if _, err := q.db.ExecContext(ctx, `DELETE FROM draw_game_tickets WHERE ticket_id = ?`, id); err != nil {
		return 0, err
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) CountTickets(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&n)
	return n, err
}
