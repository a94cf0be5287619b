package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lottotrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) ListTickets(ctx context.Context) ([]core.Ticket, error) {
	rows, err := r.queries.ListTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return rowsToTickets(rows), nil
}

func (r *SQLiteRepository) ListTicketsByType(ctx context.Context, tt core.TicketType) ([]core.Ticket, error) {
	rows, err := r.queries.ListTicketsByType(ctx, string(tt))
	if err != nil {
		return nil, fmt.Errorf("list tickets by type %s: %w", tt, err)
	}
	return rowsToTickets(rows), nil
}

func (r *SQLiteRepository) ListTicketsByStatus(ctx context.Context, status core.Status) ([]core.Ticket, error) {
	rows, err := r.queries.ListTicketsByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("list tickets by status %s: %w", status, err)
	}
	return rowsToTickets(rows), nil
}

// ListTicketsByDateRange compares at second precision, the resolution purchase dates are stored with.
func (r *SQLiteRepository) ListTicketsByDateRange(ctx context.Context, start, end time.Time) ([]core.Ticket, error) {
	rows, err := r.queries.ListTicketsByDateRange(ctx, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("list tickets by date range: %w", err)
	}
	return rowsToTickets(rows), nil
}

func (r *SQLiteRepository) GetTicket(ctx context.Context, id int64) (core.Ticket, error) {
	row, err := r.queries.GetTicket(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Ticket{}, fmt.Errorf("get ticket %d: %w", id, core.ErrTicketNotFound)
	}
	if err != nil {
		return core.Ticket{}, fmt.Errorf("get ticket %d: %w", id, err)
	}
	return row.toCore(), nil
}

func (r *SQLiteRepository) GetTicketBySerial(ctx context.Context, serial string) (core.Ticket, error) {
	row, err := r.queries.GetTicketBySerial(ctx, strings.TrimSpace(serial))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Ticket{}, fmt.Errorf("get ticket by serial %q: %w", serial, core.ErrTicketNotFound)
	}
	if err != nil {
		return core.Ticket{}, fmt.Errorf("get ticket by serial %q: %w", serial, err)
	}
	return row.toCore(), nil
}

func (r *SQLiteRepository) AddTicket(ctx context.Context, t core.Ticket) (core.Ticket, error) {
	if err := t.Validate(); err != nil {
		return core.Ticket{}, err
	}
	t.CreatedAt = r.now()
	t.ModifiedAt = time.Time{}

	err := r.inTx(ctx, func(q *Queries) error {
		id, err := q.CreateTicket(ctx, CreateTicketParams{
			TicketType:    string(t.Type),
			SerialNumber:  nullString(t.SerialNumber),
			PurchaseDate:  t.PurchaseDate.Unix(),
			PriceCents:    t.Price.Cents,
			StoreName:     nullString(t.StoreName),
			StoreLocation: nullString(t.StoreLocation),
			Status:        string(t.Status),
			PrizeCents:    nullMoney(t.Prize),
			Notes:         nullString(t.Notes),
			CreatedAt:     t.CreatedAt.Unix(),
		})
		if err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}
		t.ID = id
		return upsertDetails(ctx, q, t)
	})
	if err != nil {
		return core.Ticket{}, err
	}

	slog.InfoContext(ctx, "Ticket saved to SQLite",
		"id", t.ID,
		"ticket_type", t.Type,
		"game", t.GameName(),
		"price_cents", t.Price.Cents)

	return r.GetTicket(ctx, t.ID)
}

// UpdateTicket rewrites every stored field of t. The ticket type cannot change.
func (r *SQLiteRepository) UpdateTicket(ctx context.Context, t core.Ticket) (core.Ticket, error) {
	if err := t.Validate(); err != nil {
		return core.Ticket{}, err
	}
	t.ModifiedAt = r.now()

	err := r.inTx(ctx, func(q *Queries) error {
		storedType, err := q.GetTicketType(ctx, t.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update ticket %d: %w", t.ID, core.ErrTicketNotFound)
		}
		if err != nil {
			return fmt.Errorf("update ticket %d: %w", t.ID, err)
		}
		if storedType != string(t.Type) {
			return fmt.Errorf("update ticket %d: %w: stored as %s", t.ID, core.ErrInvalidTicketType, storedType)
		}

		if _, err := q.UpdateTicket(ctx, UpdateTicketParams{
			ID:            t.ID,
			SerialNumber:  nullString(t.SerialNumber),
			PurchaseDate:  t.PurchaseDate.Unix(),
			PriceCents:    t.Price.Cents,
			StoreName:     nullString(t.StoreName),
			StoreLocation: nullString(t.StoreLocation),
			Status:        string(t.Status),
			PrizeCents:    nullMoney(t.Prize),
			Notes:         nullString(t.Notes),
			ModifiedAt:    t.ModifiedAt.Unix(),
		}); err != nil {
			return fmt.Errorf("update ticket %d: %w", t.ID, err)
		}
		return upsertDetails(ctx, q, t)
	})
	if err != nil {
		return core.Ticket{}, err
	}

	slog.InfoContext(ctx, "Ticket updated in SQLite",
		"id", t.ID,
		"status", t.Status)

	return r.GetTicket(ctx, t.ID)
}

func (r *SQLiteRepository) DeleteTicket(ctx context.Context, id int64) error {
	var affected int64
	err := r.inTx(ctx, func(q *Queries) error {
		var err error
		affected, err = q.DeleteTicket(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete ticket %d: %w", id, core.ErrTicketNotFound)
	}

	slog.InfoContext(ctx, "Ticket deleted from SQLite", "id", id)
	return nil
}

// CountTickets returns the number of stored tickets.
func (r *SQLiteRepository) CountTickets(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTickets(ctx)
	if err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func upsertDetails(ctx context.Context, q *Queries, t core.Ticket) error {
	switch t.Type {
	case core.ScratchOff:
		d := t.ScratchOff
		params := ScratchOffParams{
			TicketID:   t.ID,
			GameName:   strings.TrimSpace(d.GameName),
			GameNumber: nullString(d.GameNumber),
		}
		if d.TicketNumber != nil {
			params.TicketNumber = sql.NullInt64{Int64: int64(*d.TicketNumber), Valid: true}
		}
		if err := q.UpsertScratchOff(ctx, params); err != nil {
			return fmt.Errorf("save scratch-off details: %w", err)
		}
	case core.DrawGame:
		d := t.DrawGame
		params := DrawGameParams{
			TicketID:        t.ID,
			GameType:        string(d.GameType),
			CustomGameName:  nullString(d.CustomGameName),
			NumbersSelected: strings.TrimSpace(d.NumbersSelected),
			BonusNumbers:    nullString(d.BonusNumbers),
			QuickPick:       d.QuickPick,
			NumberOfDraws:   int64(d.NumberOfDraws),
		}
		if !d.DrawDate.IsZero() {
			params.DrawDate = sql.NullInt64{Int64: d.DrawDate.Unix(), Valid: true}
		}
		if err := q.UpsertDrawGame(ctx, params); err != nil {
			return fmt.Errorf("save draw game details: %w", err)
		}
	}
	return nil
}

func rowsToTickets(rows []TicketRow) []core.Ticket {
	out := make([]core.Ticket, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out
}

func (row TicketRow) toCore() core.Ticket {
	t := core.Ticket{
		ID:            row.ID,
		Type:          core.TicketType(row.TicketType),
		SerialNumber:  row.SerialNumber.String,
		PurchaseDate:  time.Unix(row.PurchaseDate, 0).UTC(),
		Price:         core.Money{Cents: row.PriceCents},
		StoreName:     row.StoreName.String,
		StoreLocation: row.StoreLocation.String,
		Status:        core.Status(row.Status),
		Notes:         row.Notes.String,
		CreatedAt:     time.Unix(row.CreatedAt, 0).UTC(),
	}
	if row.PrizeCents.Valid {
		t.Prize = &core.Money{Cents: row.PrizeCents.Int64}
	}
	if row.ModifiedAt.Valid {
		t.ModifiedAt = time.Unix(row.ModifiedAt.Int64, 0).UTC()
	}

	switch t.Type {
	case core.ScratchOff:
		d := &core.ScratchOffDetails{
			GameName:   row.GameName.String,
			GameNumber: row.GameNumber.String,
		}
		if row.TicketNumber.Valid {
			n := int(row.TicketNumber.Int64)
			d.TicketNumber = &n
		}
		t.ScratchOff = d
	case core.DrawGame:
		d := &core.DrawGameDetails{
			GameType:        core.DrawGameType(row.GameType.String),
			CustomGameName:  row.CustomGameName.String,
			NumbersSelected: row.NumbersSelected.String,
			BonusNumbers:    row.BonusNumbers.String,
			QuickPick:       row.QuickPick.Bool,
			NumberOfDraws:   int(row.NumberOfDraws.Int64),
		}
		if row.DrawDate.Valid {
			d.DrawDate = time.Unix(row.DrawDate.Int64, 0).UTC()
		}
		t.DrawGame = d
	}
	return t
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func nullMoney(m *core.Money) sql.NullInt64 {
	if m == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: m.Cents, Valid: true}
}
