package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"lottotrack/internal/core"
	"lottotrack/internal/stats"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func prizeText(t core.Ticket) string {
	if t.Prize == nil {
		return "-"
	}
	return t.Prize.String()
}

func printTickets(w io.Writer, tickets []core.Ticket) {
	if len(tickets) == 0 {
		fmt.Fprintln(w, "No tickets")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tGAME\tPRICE\tSTATUS\tPRIZE")
	for _, t := range tickets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, core.FormatDate(t.PurchaseDate), t.Type, t.GameName(),
			t.Price, t.Status.Label(), prizeText(t))
	}
	_ = tw.Flush()
}

func printTicket(w io.Writer, t core.Ticket) {
	tw := newTable(w)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s\t%s\n", k, v)
		}
	}
	row("ID", fmt.Sprint(t.ID))
	row("Type", string(t.Type))
	row("Game", t.GameName())
	row("Serial", t.SerialNumber)
	row("Purchased", core.FormatDate(t.PurchaseDate))
	row("Price", t.Price.String())
	row("Store", t.StoreName)
	row("Location", t.StoreLocation)
	row("Status", t.Status.Label())
	if t.Prize != nil {
		row("Prize", t.Prize.String())
	}
	if d := t.ScratchOff; d != nil {
		row("Game number", d.GameNumber)
		if d.TicketNumber != nil {
			row("Ticket number", fmt.Sprint(*d.TicketNumber))
		}
	}
	if d := t.DrawGame; d != nil {
		row("Numbers", d.NumbersSelected)
		row("Bonus", d.BonusNumbers)
		row("Draw date", core.FormatDate(d.DrawDate))
		if d.QuickPick {
			row("Quick pick", "yes")
		}
		row("Draws", fmt.Sprint(d.NumberOfDraws))
	}
	row("Notes", t.Notes)
	_ = tw.Flush()
}

func printStatistics(w io.Writer, s stats.TicketStatistics) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Tickets\t%d\n", s.TotalTickets)
	fmt.Fprintf(tw, "Winning\t%d\n", s.WinningTickets)
	fmt.Fprintf(tw, "Losing\t%d\n", s.LosingTickets)
	fmt.Fprintf(tw, "Pending\t%d\n", s.PendingTickets)
	fmt.Fprintf(tw, "Spent\t%s\n", s.TotalSpent)
	fmt.Fprintf(tw, "Won\t%s\n", s.TotalWon)
	fmt.Fprintf(tw, "Net\t%s\n", s.NetProfit())
	fmt.Fprintf(tw, "Win rate\t%.1f%%\n", s.WinRate())
	_ = tw.Flush()
}

func printGames(w io.Writer, games []stats.GameStatistics) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No tickets")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "GAME\tTYPE\tTICKETS\tSPENT\tWON\tNET\tWIN RATE")
	for _, g := range games {
		s := g.Statistics
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%.1f%%\n",
			g.GameName, g.TicketType, s.TotalTickets, s.TotalSpent, s.TotalWon, s.NetProfit(), s.WinRate())
	}
	_ = tw.Flush()
}

func printPeriods(w io.Writer, periods []stats.PeriodStatistics) {
	tw := newTable(w)
	fmt.Fprintln(tw, "MONTH\tTICKETS\tSPENT\tWON\tNET")
	for _, p := range periods {
		s := p.Statistics
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			p.StartDate.Format("2006-01"), s.TotalTickets, s.TotalSpent, s.TotalWon, s.NetProfit())
	}
	_ = tw.Flush()
}
