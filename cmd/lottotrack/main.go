package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"lottotrack/internal/backend"
	appcli "lottotrack/internal/cli"
	"lottotrack/internal/config"
	applog "lottotrack/internal/log"
	"lottotrack/internal/settings"
)

// app carries the state shared by every command. The backend is opened on
// first use so settings commands work without a database.
type app struct {
	cfg     *config.Config
	prefs   *settings.Store
	logger  *applog.Logger
	backend *backend.BackendResult
}

func main() {
	appcli.LoadEnvFile()

	a := &app{}
	err := a.newCLI().Run(os.Args)
	if cerr := a.close(); cerr != nil {
		a.logger.Error("Failed to close backend", applog.FieldError, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) newCLI() *cli.App {
	c := cli.NewApp()
	c.Name = "lottotrack"
	c.Usage = "Track lottery tickets, wins and spending"
	c.Before = a.load
	c.Action = cli.ShowAppHelp
	c.Commands = append(a.ticketCommands(), a.statsCommands()...)
	c.Commands = append(c.Commands, a.settingsCommand(), a.serveCommand())
	return c
}

// load reads configuration, settings and the logger once per process.
func (a *app) load(*cli.Context) error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := appcli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.prefs = settings.NewStore(cfg.SettingsPath)
	a.logger = appcli.SetupLogger(applog.ComponentApp, a.prefs, os.Stderr)
	return nil
}

// open returns the ticket backend, creating it on first call.
func (a *app) open(ctx context.Context) (*backend.BackendResult, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	bcfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(a.logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	a.backend = res
	return res, nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	return err
}
