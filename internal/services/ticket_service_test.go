package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lottotrack/internal/core"
	"lottotrack/internal/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []core.TicketEvent
	err    error
}

func (p *recordingPublisher) PublishTicketEvent(_ context.Context, ev core.TicketEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []core.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// stalledPublisher blocks until the caller gives up, like a broker that
// accepts the connection but never answers.
type stalledPublisher struct{}

func (stalledPublisher) PublishTicketEvent(ctx context.Context, _ core.TicketEvent) error {
	<-ctx.Done()
	return ctx.Err()
}

func scratchTicket(game string, priceCents int64, purchased time.Time) core.Ticket {
	return core.Ticket{
		Type:         core.ScratchOff,
		SerialNumber: "SN-" + game,
		PurchaseDate: purchased,
		Price:        core.Money{Cents: priceCents},
		ScratchOff:   &core.ScratchOffDetails{GameName: game},
	}
}

func drawTicket(game core.DrawGameType, priceCents int64, purchased time.Time) core.Ticket {
	return core.Ticket{
		Type:         core.DrawGame,
		PurchaseDate: purchased,
		Price:        core.Money{Cents: priceCents},
		DrawGame:     &core.DrawGameDetails{GameType: game, NumbersSelected: "1 2 3 4 5"},
	}
}

func newTicketService(t *testing.T) (*TicketService, *memory.Store, *recordingPublisher) {
	t.Helper()
	store := memory.New()
	pub := &recordingPublisher{}
	return NewTicketService(store, pub), store, pub
}

func TestTicketService_AddDefaults(t *testing.T) {
	svc, _, pub := newTicketService(t)
	ctx := context.Background()

	so, err := svc.AddTicket(ctx, scratchTicket("Lucky 7s", 500, time.Now()))
	require.NoError(t, err)
	require.Equal(t, core.Pending, so.Status)
	require.NotZero(t, so.ID)

	dg, err := svc.AddTicket(ctx, drawTicket(core.Powerball, 200, time.Now()))
	require.NoError(t, err)
	require.Equal(t, 1, dg.DrawGame.NumberOfDraws)

	require.Equal(t, []core.EventType{core.EventTicketCreated, core.EventTicketCreated}, pub.types())
}

func TestTicketService_AddValidation(t *testing.T) {
	svc, store, pub := newTicketService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		ticket core.Ticket
		want   error
	}{
		{"zero price", scratchTicket("A", 0, time.Now()), core.ErrInvalidPrice},
		{"empty game", scratchTicket(" ", 100, time.Now()), core.ErrEmptyGameName},
		{"missing date", scratchTicket("A", 100, time.Time{}), core.ErrMissingPurchaseDate},
		{"other without name", drawTicket(core.OtherGame, 100, time.Now()), core.ErrEmptyCustomGame},
		{"prize on pending", func() core.Ticket {
			tk := scratchTicket("A", 100, time.Now())
			tk.Prize = &core.Money{Cents: 10}
			return tk
		}(), core.ErrPrizeWithoutWin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddTicket(ctx, tt.ticket)
			require.ErrorIs(t, err, tt.want)
			require.True(t, core.IsValidationError(err))
		})
	}

	all, err := store.ListTickets(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
	require.Empty(t, pub.types())
}

func TestTicketService_StatusLifecycle(t *testing.T) {
	svc, _, pub := newTicketService(t)
	ctx := context.Background()

	tk, err := svc.AddTicket(ctx, scratchTicket("A", 200, time.Now()))
	require.NoError(t, err)

	_, err = svc.MarkClaimed(ctx, tk.ID)
	require.ErrorIs(t, err, core.ErrInvalidTransition, "pending cannot be claimed")

	won, err := svc.MarkWinner(ctx, tk.ID, core.Money{Cents: 5000})
	require.NoError(t, err)
	require.Equal(t, core.Winner, won.Status)
	require.EqualValues(t, 5000, won.Prize.Cents)

	lost, err := svc.MarkLoser(ctx, tk.ID)
	require.NoError(t, err)
	require.Equal(t, core.Loser, lost.Status)
	require.Nil(t, lost.Prize)

	_, err = svc.MarkWinner(ctx, tk.ID, core.Money{Cents: 1000})
	require.ErrorIs(t, err, core.ErrInvalidTransition, "loser is final")

	tk, err = svc.AddTicket(ctx, scratchTicket("B", 200, time.Now()))
	require.NoError(t, err)
	_, err = svc.MarkWinner(ctx, tk.ID, core.Money{Cents: 1000})
	require.NoError(t, err)
	claimed, err := svc.MarkClaimed(ctx, tk.ID)
	require.NoError(t, err)
	require.Equal(t, core.Claimed, claimed.Status)
	require.EqualValues(t, 1000, claimed.Prize.Cents)

	_, err = svc.MarkLoser(ctx, tk.ID)
	require.ErrorIs(t, err, core.ErrInvalidTransition, "claimed is final")

	_, err = svc.MarkWinner(ctx, tk.ID, core.Money{Cents: -1})
	require.Error(t, err)

	require.Equal(t, []core.EventType{
		core.EventTicketCreated,
		core.EventTicketStatusChanged,
		core.EventTicketStatusChanged,
		core.EventTicketCreated,
		core.EventTicketStatusChanged,
		core.EventTicketStatusChanged,
	}, pub.types())
}

func TestTicketService_MarkWinnerWithGroupedPrize(t *testing.T) {
	svc, store, _ := newTicketService(t)
	ctx := context.Background()

	tk, err := svc.AddTicket(ctx, scratchTicket("A", 200, time.Now()))
	require.NoError(t, err)

	prize, err := core.ParseMoney("$1,000")
	require.NoError(t, err)
	_, err = svc.MarkWinner(ctx, tk.ID, prize)
	require.NoError(t, err)

	got, err := store.GetTicket(ctx, tk.ID)
	require.NoError(t, err)
	require.EqualValues(t, 100000, got.Prize.Cents)
	require.Equal(t, "$1,000.00", got.Prize.String())
}

func TestTicketService_StalledBrokerDoesNotBlockWrites(t *testing.T) {
	store := memory.New()
	svc := NewTicketService(store, stalledPublisher{})
	svc.publishBudget = 20 * time.Millisecond
	ctx := context.Background()

	start := time.Now()
	tk, err := svc.AddTicket(ctx, scratchTicket("A", 200, time.Now()))
	require.NoError(t, err)
	_, err = svc.MarkWinner(ctx, tk.ID, core.Money{Cents: 100})
	require.NoError(t, err)
	require.Less(t, time.Since(start), 2*time.Second)

	got, err := store.GetTicket(ctx, tk.ID)
	require.NoError(t, err)
	require.Equal(t, core.Winner, got.Status)
}

func TestTicketService_SetStatus(t *testing.T) {
	svc, _, _ := newTicketService(t)
	ctx := context.Background()

	tk, err := svc.AddTicket(ctx, scratchTicket("A", 200, time.Now()))
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, tk.ID, core.Winner, nil)
	require.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = svc.SetStatus(ctx, tk.ID, core.Pending, nil)
	require.ErrorIs(t, err, core.ErrInvalidTransition)

	_, err = svc.SetStatus(ctx, tk.ID, core.Status("lucky"), nil)
	require.ErrorIs(t, err, core.ErrInvalidStatus)

	got, err := svc.SetStatus(ctx, tk.ID, core.Winner, &core.Money{Cents: 300})
	require.NoError(t, err)
	require.Equal(t, core.Winner, got.Status)

	_, err = svc.SetStatus(ctx, 999, core.Loser, nil)
	require.ErrorIs(t, err, core.ErrTicketNotFound)
}

func TestTicketService_UpdateKeepsStatus(t *testing.T) {
	svc, _, pub := newTicketService(t)
	ctx := context.Background()

	tk, err := svc.AddTicket(ctx, scratchTicket("A", 200, time.Now()))
	require.NoError(t, err)
	_, err = svc.MarkWinner(ctx, tk.ID, core.Money{Cents: 800})
	require.NoError(t, err)

	edit := tk
	edit.StoreName = "Gas Station"
	edit.Status = core.Pending
	edit.Prize = nil
	updated, err := svc.UpdateTicket(ctx, edit)
	require.NoError(t, err)
	require.Equal(t, "Gas Station", updated.StoreName)
	require.Equal(t, core.Winner, updated.Status)
	require.EqualValues(t, 800, updated.Prize.Cents)
	require.Contains(t, pub.types(), core.EventTicketUpdated)
}

func TestTicketService_DeleteAndFind(t *testing.T) {
	svc, _, pub := newTicketService(t)
	ctx := context.Background()

	tk, err := svc.AddTicket(ctx, scratchTicket("Gold", 200, time.Now()))
	require.NoError(t, err)

	found, err := svc.FindBySerial(ctx, "SN-Gold")
	require.NoError(t, err)
	require.Equal(t, tk.ID, found.ID)

	_, err = svc.FindBySerial(ctx, "  ")
	require.ErrorIs(t, err, core.ErrTicketNotFound)

	require.NoError(t, svc.DeleteTicket(ctx, tk.ID))
	require.ErrorIs(t, svc.DeleteTicket(ctx, tk.ID), core.ErrTicketNotFound)

	_, err = svc.GetTicket(ctx, tk.ID)
	require.ErrorIs(t, err, core.ErrTicketNotFound)
	require.Equal(t, core.EventTicketDeleted, pub.types()[len(pub.types())-1])
}

func TestTicketService_PublishFailureDoesNotFail(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewTicketService(store, pub)

	tk, err := svc.AddTicket(context.Background(), scratchTicket("A", 100, time.Now()))
	require.NoError(t, err)
	require.NotZero(t, tk.ID)
	require.Len(t, pub.types(), 1)
}

func TestTicketService_NilPublisher(t *testing.T) {
	svc := NewTicketService(memory.New(), nil)
	_, err := svc.AddTicket(context.Background(), scratchTicket("A", 100, time.Now()))
	require.NoError(t, err)
}
