package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"lottotrack/internal/core"
)

func (a *app) statsCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:     "stats",
			Usage:    "Show spending and winnings",
			Category: "Statistics",
			Action:   a.statsOverall,
			Subcommands: []*cli.Command{
				{Name: "overall", Usage: "Totals across every ticket", Action: a.statsOverall},
				{Name: "type", Usage: "Totals for one ticket type", ArgsUsage: "<scratch_off|draw_game>", Action: a.statsByType},
				{Name: "games", Usage: "Totals per game, most played first", Action: a.statsByGame},
				{
					Name:   "monthly",
					Usage:  "Totals per calendar month, oldest first",
					Flags:  []cli.Flag{&cli.IntFlag{Name: "months", Usage: "number of months, defaults to STATS_MONTHS"}},
					Action: a.statsMonthly,
				},
				{
					Name:  "period",
					Usage: "Totals for a purchase date range",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "from", Usage: "first day (YYYY-MM-DD)", Required: true},
						&cli.StringFlag{Name: "to", Usage: "last day (YYYY-MM-DD), inclusive", Required: true},
					},
					Action: a.statsPeriod,
				},
			},
		},
		{
			Name:     "dashboard",
			Usage:    "Overall totals and the most recent tickets",
			Category: "Statistics",
			Action:   a.dashboard,
		},
	}
}

func (a *app) statsOverall(c *cli.Context) error {
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	st, err := b.Stats.Overall(c.Context)
	if err != nil {
		return err
	}
	printStatistics(c.App.Writer, st)
	return nil
}

func (a *app) statsByType(c *cli.Context) error {
	tt, err := core.ParseTicketType(c.Args().First())
	if err != nil {
		return err
	}
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	st, err := b.Stats.ByType(c.Context, tt)
	if err != nil {
		return err
	}
	printStatistics(c.App.Writer, st)
	return nil
}

func (a *app) statsByGame(c *cli.Context) error {
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	games, err := b.Stats.ByGame(c.Context)
	if err != nil {
		return err
	}
	printGames(c.App.Writer, games)
	return nil
}

func (a *app) statsMonthly(c *cli.Context) error {
	months := c.Int("months")
	if months < 0 || months > 120 {
		return fmt.Errorf("%w: months must be between 1 and 120", core.ErrInvalidPeriod)
	}
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	periods, err := b.Stats.Monthly(c.Context, months)
	if err != nil {
		return err
	}
	printPeriods(c.App.Writer, periods)
	return nil
}

func (a *app) statsPeriod(c *cli.Context) error {
	from, err := core.ParseDate(c.String("from"))
	if err != nil {
		return err
	}
	to, err := core.ParseDate(c.String("to"))
	if err != nil {
		return err
	}
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	p, err := b.Stats.ByPeriod(c.Context, from, core.EndOfDay(to))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s to %s\n", core.FormatDate(p.StartDate), core.FormatDate(p.EndDate))
	printStatistics(c.App.Writer, p.Statistics)
	return nil
}

func (a *app) dashboard(c *cli.Context) error {
	b, err := a.open(c.Context)
	if err != nil {
		return err
	}
	d, err := b.Stats.Dashboard(c.Context)
	if err != nil {
		return err
	}
	printStatistics(c.App.Writer, d.Overall)
	fmt.Fprintln(c.App.Writer)
	fmt.Fprintln(c.App.Writer, "Recent tickets")
	printTickets(c.App.Writer, d.Recent)
	return nil
}
