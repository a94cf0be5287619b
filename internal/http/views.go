package http

import (
	"time"

	"lottotrack/internal/core"
	"lottotrack/internal/services"
	"lottotrack/internal/stats"
)

type moneyView struct {
	Cents   int64  `json:"cents"`
	Display string `json:"display"`
}

func newMoneyView(m core.Money) moneyView {
	return moneyView{Cents: m.Cents, Display: m.String()}
}

type scratchOffView struct {
	GameName     string `json:"game_name"`
	GameNumber   string `json:"game_number,omitempty"`
	TicketNumber *int   `json:"ticket_number,omitempty"`
}

type drawGameView struct {
	GameType        core.DrawGameType `json:"game_type"`
	CustomGameName  string            `json:"custom_game_name,omitempty"`
	NumbersSelected string            `json:"numbers_selected"`
	BonusNumbers    string            `json:"bonus_numbers,omitempty"`
	DrawDate        string            `json:"draw_date,omitempty"`
	QuickPick       bool              `json:"quick_pick"`
	NumberOfDraws   int               `json:"number_of_draws"`
}

type ticketView struct {
	ID            int64           `json:"id"`
	Type          core.TicketType `json:"type"`
	GameName      string          `json:"game_name"`
	SerialNumber  string          `json:"serial_number,omitempty"`
	PurchaseDate  string          `json:"purchase_date"`
	Price         moneyView       `json:"price"`
	StoreName     string          `json:"store_name,omitempty"`
	StoreLocation string          `json:"store_location,omitempty"`
	Status        core.Status     `json:"status"`
	StatusLabel   string          `json:"status_label"`
	Prize         *moneyView      `json:"prize,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ModifiedAt    *time.Time      `json:"modified_at,omitempty"`
	ScratchOff    *scratchOffView `json:"scratch_off,omitempty"`
	DrawGame      *drawGameView   `json:"draw_game,omitempty"`
}

func newTicketView(t core.Ticket) ticketView {
	v := ticketView{
		ID:            t.ID,
		Type:          t.Type,
		GameName:      t.GameName(),
		SerialNumber:  t.SerialNumber,
		PurchaseDate:  core.FormatDate(t.PurchaseDate),
		Price:         newMoneyView(t.Price),
		StoreName:     t.StoreName,
		StoreLocation: t.StoreLocation,
		Status:        t.Status,
		StatusLabel:   t.Status.Label(),
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
	}
	if t.Prize != nil {
		p := newMoneyView(*t.Prize)
		v.Prize = &p
	}
	if !t.ModifiedAt.IsZero() {
		m := t.ModifiedAt
		v.ModifiedAt = &m
	}
	if d := t.ScratchOff; d != nil {
		v.ScratchOff = &scratchOffView{GameName: d.GameName, GameNumber: d.GameNumber, TicketNumber: d.TicketNumber}
	}
	if d := t.DrawGame; d != nil {
		dv := &drawGameView{
			GameType:        d.GameType,
			CustomGameName:  d.CustomGameName,
			NumbersSelected: d.NumbersSelected,
			BonusNumbers:    d.BonusNumbers,
			QuickPick:       d.QuickPick,
			NumberOfDraws:   d.NumberOfDraws,
		}
		dv.DrawDate = core.FormatDate(d.DrawDate)
		v.DrawGame = dv
	}
	return v
}

func newTicketViews(list []core.Ticket) []ticketView {
	out := make([]ticketView, 0, len(list))
	for _, t := range list {
		out = append(out, newTicketView(t))
	}
	return out
}

type statisticsView struct {
	TotalTickets   int       `json:"total_tickets"`
	WinningTickets int       `json:"winning_tickets"`
	LosingTickets  int       `json:"losing_tickets"`
	PendingTickets int       `json:"pending_tickets"`
	TotalSpent     moneyView `json:"total_spent"`
	TotalWon       moneyView `json:"total_won"`
	NetProfit      moneyView `json:"net_profit"`
	WinRate        float64   `json:"win_rate"`
}

func newStatisticsView(s stats.TicketStatistics) statisticsView {
	return statisticsView{
		TotalTickets:   s.TotalTickets,
		WinningTickets: s.WinningTickets,
		LosingTickets:  s.LosingTickets,
		PendingTickets: s.PendingTickets,
		TotalSpent:     newMoneyView(s.TotalSpent),
		TotalWon:       newMoneyView(s.TotalWon),
		NetProfit:      newMoneyView(s.NetProfit()),
		WinRate:        s.WinRate(),
	}
}

type periodView struct {
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Statistics statisticsView `json:"statistics"`
}

func newPeriodView(p stats.PeriodStatistics) periodView {
	return periodView{
		StartDate:  core.FormatDate(p.StartDate),
		EndDate:    core.FormatDate(p.EndDate),
		Statistics: newStatisticsView(p.Statistics),
	}
}

type gameView struct {
	GameName   string          `json:"game_name"`
	TicketType core.TicketType `json:"ticket_type"`
	Statistics statisticsView  `json:"statistics"`
}

type dashboardView struct {
	Overall statisticsView `json:"overall"`
	Recent  []ticketView   `json:"recent"`
}

func newDashboardView(d services.Dashboard) dashboardView {
	return dashboardView{
		Overall: newStatisticsView(d.Overall),
		Recent:  newTicketViews(d.Recent),
	}
}
