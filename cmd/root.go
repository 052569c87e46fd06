package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/psds-microservice/helpdesk-cli/internal/application"
	"github.com/psds-microservice/helpdesk-cli/internal/config"
	"github.com/psds-microservice/helpdesk-cli/internal/render"
	"github.com/psds-microservice/helpdesk-cli/pkg/logger"
)

// app и out заполняются в PersistentPreRunE до запуска любой команды.
var (
	app *application.App
	out *render.Printer
)

var rootCmd = &cobra.Command{
	Use:               "helpdesk",
	Short:             "Helpdesk client: raise tickets, follow them up, manage them as staff",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		return app.Close()
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(myTicketsCmd)
	rootCmd.AddCommand(ticketsCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(storageCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel)
	if app, err = application.New(cfg, log); err != nil {
		return err
	}
	out = render.New(cmd.OutOrStdout(), render.DefaultTheme, terminalWidth())
	return nil
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}
