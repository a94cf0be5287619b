package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lottotrack/internal/cache"
	"lottotrack/internal/core"
	"lottotrack/internal/ports"
	"lottotrack/internal/services"
	"lottotrack/internal/stats"
)

// Event ids are remembered for redelivery checks, bounded in count and age.
const (
	seenLimit = 1024
	seenTTL   = 24 * time.Hour
)

// SummaryWorker reacts to ticket events by recomputing the overall summary,
// and also logs it on a fixed interval.
type SummaryWorker struct {
	tickets  ports.TicketReader
	stats    *services.StatisticsService
	interval time.Duration

	seen *cache.LRU[struct{}]

	mu        sync.Mutex
	processed int
	last      stats.TicketStatistics

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSummaryWorker(tickets ports.TicketReader, st *services.StatisticsService, interval time.Duration) *SummaryWorker {
	return &SummaryWorker{
		tickets:  tickets,
		stats:    st,
		interval: interval,
		seen:     cache.NewLRU[struct{}](seenLimit, seenTTL),
	}
}

// HandleTicketEvent processes one event. Redelivered events are skipped.
func (w *SummaryWorker) HandleTicketEvent(ctx context.Context, ev core.TicketEvent) error {
	if !w.remember(ev.EventID) {
		slog.DebugContext(ctx, "Skipping already processed event", "event_id", ev.EventID)
		return nil
	}

	slog.InfoContext(ctx, "Processing ticket event",
		"event_id", ev.EventID,
		"type", ev.Type,
		"ticket_id", ev.TicketID,
		"status", ev.Status)

	if ev.Type != core.EventTicketDeleted {
		if _, err := w.tickets.GetTicket(ctx, ev.TicketID); err != nil {
			if !errors.Is(err, core.ErrTicketNotFound) {
				w.forget(ev.EventID)
				return fmt.Errorf("load ticket %d: %w", ev.TicketID, err)
			}
			// deleted again before we saw the event
			slog.WarnContext(ctx, "Ticket from event no longer exists", "ticket_id", ev.TicketID)
		}
	}

	if _, err := w.summarize(ctx); err != nil {
		w.forget(ev.EventID)
		return err
	}
	return nil
}

func (w *SummaryWorker) summarize(ctx context.Context) (stats.TicketStatistics, error) {
	overall, err := w.stats.Overall(ctx)
	if err != nil {
		return stats.TicketStatistics{}, fmt.Errorf("compute summary: %w", err)
	}

	w.mu.Lock()
	w.processed++
	w.last = overall
	w.mu.Unlock()

	slog.InfoContext(ctx, "Ticket summary",
		"total", overall.TotalTickets,
		"winning", overall.WinningTickets,
		"losing", overall.LosingTickets,
		"pending", overall.PendingTickets,
		"spent", overall.TotalSpent.String(),
		"won", overall.TotalWon.String(),
		"net", overall.NetProfit().String(),
		"win_rate", fmt.Sprintf("%.1f%%", overall.WinRate()))
	return overall, nil
}

// Last returns the most recent summary and how many times one was computed.
func (w *SummaryWorker) Last() (stats.TicketStatistics, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.processed
}

func (w *SummaryWorker) remember(id string) bool {
	return w.seen.Add(id, struct{}{})
}

// forget lets a failed event be retried on redelivery.
func (w *SummaryWorker) forget(id string) {
	w.seen.Delete(id)
}

// Start runs the periodic summary loop. Returns an error if already running.
func (w *SummaryWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("summary worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	slog.InfoContext(ctx, "Summary worker started", "interval", w.interval)
	return nil
}

// Stop signals the loop and waits for it to finish.
func (w *SummaryWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)

	select {
	case <-w.doneCh:
		slog.InfoContext(ctx, "Summary worker stopped")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Summary worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	return nil
}

func (w *SummaryWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *SummaryWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	if _, err := w.summarize(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup summary failed", "error", err)
	}
	if w.interval <= 0 {
		<-w.stopOrDone(ctx)
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.summarize(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic summary failed", "error", err)
			}
			if n := w.seen.CleanExpired(); n > 0 {
				slog.DebugContext(ctx, "Expired processed event ids", "count", n)
			}
		}
	}
}

func (w *SummaryWorker) stopOrDone(ctx context.Context) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		select {
		case <-w.stopCh:
		case <-ctx.Done():
		}
	}()
	return out
}
