package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

func (a *app) settingsCommand() *cli.Command {
	return &cli.Command{
		Name:     "settings",
		Usage:    "Show or change user settings",
		Category: "Settings",
		Action:   a.settingsShow,
		Subcommands: []*cli.Command{
			{Name: "show", Usage: "Print the current settings", Action: a.settingsShow},
			{
				Name:      "camera",
				Usage:     "Select the scanning camera",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "clear", Usage: "unset the selected camera"},
				},
				Action: a.settingsCamera,
			},
			{Name: "logging", Usage: "Turn logging on or off", ArgsUsage: "<on|off>", Action: a.settingsLogging},
		},
	}
}

func (a *app) settingsShow(c *cli.Context) error {
	st := a.prefs.Get()
	camera := st.SelectedCameraID
	if camera == "" {
		camera = "(none)"
	}
	fmt.Fprintf(c.App.Writer, "File:     %s\n", a.prefs.Path())
	fmt.Fprintf(c.App.Writer, "Camera:   %s\n", camera)
	fmt.Fprintf(c.App.Writer, "Logging:  %s\n", onOff(st.LoggingEnabled))
	return nil
}

func (a *app) settingsCamera(c *cli.Context) error {
	id := strings.TrimSpace(c.Args().First())
	switch {
	case c.Bool("clear") && id != "":
		return fmt.Errorf("camera id %q given together with --clear", id)
	case !c.Bool("clear") && id == "":
		return fmt.Errorf("camera id required, or --clear to unset it")
	}
	if err := a.prefs.SetSelectedCameraID(id); err != nil {
		return err
	}
	a.logger.Info("Camera selected", "camera_id", id)
	return a.settingsShow(c)
}

func (a *app) settingsLogging(c *cli.Context) error {
	var enabled bool
	switch strings.ToLower(c.Args().First()) {
	case "on", "true", "yes":
		enabled = true
	case "off", "false", "no":
	default:
		return fmt.Errorf("logging must be on or off, got %q", c.Args().First())
	}
	if err := a.prefs.SetLoggingEnabled(enabled); err != nil {
		return err
	}
	return a.settingsShow(c)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
