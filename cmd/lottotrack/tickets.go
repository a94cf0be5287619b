package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"lottotrack/internal/core"
	"lottotrack/internal/services"
)

// purchaseFlags are the flags shared by both ticket kinds. Flags keep parse
// state, so each command gets its own copies.
func purchaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "date", Usage: "purchase date (YYYY-MM-DD), defaults to today"},
		&cli.StringFlag{Name: "price", Usage: "ticket price, e.g. 2 or 2.50", Required: true},
		&cli.StringFlag{Name: "serial", Usage: "serial number printed on the ticket"},
		&cli.StringFlag{Name: "store", Usage: "store name"},
		&cli.StringFlag{Name: "location", Usage: "store location"},
		&cli.StringFlag{Name: "notes", Usage: "free-form notes"},
	}
}

func (a *app) ticketCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:     "add",
			Usage:    "Record a purchased ticket",
			Category: "Tickets",
			Subcommands: []*cli.Command{
				{
					Name:  "scratch",
					Usage: "Record a scratch-off ticket",
					Flags: append([]cli.Flag{
						&cli.StringFlag{Name: "game", Usage: "game name", Required: true},
						&cli.StringFlag{Name: "game-number", Usage: "game number"},
						&cli.IntFlag{Name: "ticket-number", Usage: "ticket number within the pack"},
					}, purchaseFlags()...),
					Action: a.addScratch,
				},
				{
					Name:  "draw",
					Usage: "Record a draw game ticket",
					Flags: append([]cli.Flag{
						&cli.StringFlag{Name: "game", Usage: "one of " + drawGameNames(), Required: true},
						&cli.StringFlag{Name: "custom-name", Usage: "game name when --game is Other"},
						&cli.StringFlag{Name: "numbers", Usage: "numbers played", Required: true},
						&cli.StringFlag{Name: "bonus", Usage: "bonus numbers"},
						&cli.StringFlag{Name: "draw-date", Usage: "draw date (YYYY-MM-DD)"},
						&cli.BoolFlag{Name: "quick-pick", Usage: "numbers were machine picked"},
						&cli.IntFlag{Name: "draws", Usage: "number of consecutive draws", Value: 1},
					}, purchaseFlags()...),
					Action: a.addDraw,
				},
			},
		},
		{
			Name:     "list",
			Usage:    "List tickets, newest first",
			Category: "Tickets",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "type", Usage: "scratch_off or draw_game"},
				&cli.StringFlag{Name: "status", Usage: "pending, winner, loser or claimed"},
				&cli.StringFlag{Name: "from", Usage: "first purchase date (YYYY-MM-DD)"},
				&cli.StringFlag{Name: "to", Usage: "last purchase date (YYYY-MM-DD), inclusive"},
			},
			Action: a.list,
		},
		{Name: "show", Usage: "Show one ticket", ArgsUsage: "<id>", Category: "Tickets", Action: a.show},
		{Name: "find", Usage: "Find a ticket by serial number or scanned barcode", ArgsUsage: "<serial>", Category: "Tickets", Action: a.find},
		{Name: "win", Usage: "Mark a ticket as a winner", ArgsUsage: "<id> <prize>", Category: "Tickets", Action: a.win},
		{Name: "lose", Usage: "Mark a ticket as a loser", ArgsUsage: "<id>", Category: "Tickets", Action: a.lose},
		{Name: "claim", Usage: "Mark a winning ticket as claimed", ArgsUsage: "<id>", Category: "Tickets", Action: a.claim},
		{Name: "delete", Usage: "Delete a ticket", ArgsUsage: "<id>", Category: "Tickets", Action: a.remove},
	}
}

func drawGameNames() string {
	names := make([]string, 0, len(core.DrawGameTypes()))
	for _, g := range core.DrawGameTypes() {
		names = append(names, string(g))
	}
	return strings.Join(names, ", ")
}

// baseTicket reads the flags shared by both ticket kinds.
func baseTicket(c *cli.Context, tt core.TicketType) (core.Ticket, error) {
	date := c.String("date")
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}
	purchased, err := core.ParseDate(date)
	if err != nil {
		return core.Ticket{}, err
	}
	price, err := core.ParseMoney(c.String("price"))
	if err != nil {
		return core.Ticket{}, fmt.Errorf("%w: price", err)
	}
	return core.Ticket{
		Type:          tt,
		SerialNumber:  c.String("serial"),
		PurchaseDate:  purchased,
		Price:         price,
		StoreName:     c.String("store"),
		StoreLocation: c.String("location"),
		Notes:         c.String("notes"),
	}, nil
}

func (a *app) addScratch(c *cli.Context) error {
	t, err := baseTicket(c, core.ScratchOff)
	if err != nil {
		return err
	}
	t.ScratchOff = &core.ScratchOffDetails{
		GameName:   c.String("game"),
		GameNumber: c.String("game-number"),
	}
	if c.IsSet("ticket-number") {
		n := c.Int("ticket-number")
		t.ScratchOff.TicketNumber = &n
	}
	return a.add(c, t)
}

func (a *app) addDraw(c *cli.Context) error {
	t, err := baseTicket(c, core.DrawGame)
	if err != nil {
		return err
	}
	game, err := core.ParseDrawGameType(c.String("game"))
	if err != nil {
		return err
	}
	d := &core.DrawGameDetails{
		GameType:        game,
		CustomGameName:  c.String("custom-name"),
		NumbersSelected: c.String("numbers"),
		BonusNumbers:    c.String("bonus"),
		QuickPick:       c.Bool("quick-pick"),
		NumberOfDraws:   c.Int("draws"),
	}
	if v := c.String("draw-date"); v != "" {
		if d.DrawDate, err = core.ParseDate(v); err != nil {
			return err
		}
	}
	t.DrawGame = d
	return a.add(c, t)
}

func (a *app) add(c *cli.Context, t core.Ticket) error {
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	saved, err := b.Tickets.AddTicket(c.Context, t)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Added ticket %d\n", saved.ID)
	printTicket(c.App.Writer, saved)
	return nil
}

func (a *app) list(c *cli.Context) error {
	var f services.TicketFilter
	var err error
	if v := c.String("type"); v != "" {
		if f.Type, err = core.ParseTicketType(v); err != nil {
			return err
		}
	}
	if v := c.String("status"); v != "" {
		if f.Status, err = core.ParseStatus(v); err != nil {
			return err
		}
	}
	if v := c.String("from"); v != "" {
		if f.From, err = core.ParseDate(v); err != nil {
			return err
		}
	}
	if v := c.String("to"); v != "" {
		to, err := core.ParseDate(v)
		if err != nil {
			return err
		}
		f.To = core.EndOfDay(to)
	}

	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	tickets, err := b.Stats.ListTickets(c.Context, f)
	if err != nil {
		return err
	}
	printTickets(c.App.Writer, tickets)
	return nil
}

func (a *app) show(c *cli.Context) error {
	id, err := argID(c, 0)
	if err != nil {
		return err
	}
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	t, err := b.Tickets.GetTicket(c.Context, id)
	if err != nil {
		return err
	}
	printTicket(c.App.Writer, t)
	return nil
}

func (a *app) find(c *cli.Context) error {
	serial := strings.TrimSpace(c.Args().First())
	if serial == "" {
		return fmt.Errorf("serial number is required")
	}
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	t, err := b.Tickets.FindBySerial(c.Context, serial)
	if err != nil {
		return err
	}
	printTicket(c.App.Writer, t)
	return nil
}

func (a *app) win(c *cli.Context) error {
	id, err := argID(c, 0)
	if err != nil {
		return err
	}
	prize, err := core.ParseMoney(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("%w: prize", err)
	}
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	t, err := b.Tickets.MarkWinner(c.Context, id, prize)
	if err != nil {
		return err
	}
	printTicket(c.App.Writer, t)
	return nil
}

func (a *app) lose(c *cli.Context) error {
	id, err := argID(c, 0)
	if err != nil {
		return err
	}
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	t, err := b.Tickets.MarkLoser(c.Context, id)
	if err != nil {
		return err
	}
	printTicket(c.App.Writer, t)
	return nil
}

func (a *app) claim(c *cli.Context) error {
	id, err := argID(c, 0)
	if err != nil {
		return err
	}
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	t, err := b.Tickets.MarkClaimed(c.Context, id)
	if err != nil {
		return err
	}
	printTicket(c.App.Writer, t)
	return nil
}

func (a *app) remove(c *cli.Context) error {
	id, err := argID(c, 0)
	if err != nil {
		return err
	}
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	if err := b.Tickets.DeleteTicket(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Deleted ticket %d\n", id)
	return nil
}

func argID(c *cli.Context, n int) (int64, error) {
	raw := c.Args().Get(n)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid ticket id %q", raw)
	}
	return id, nil
}
