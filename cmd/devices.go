package cmd

import (
	"github.com/spf13/cobra"

	"github.com/psds-microservice/helpdesk-cli/internal/access"
	"github.com/psds-microservice/helpdesk-cli/internal/view"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Devices assigned to you",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.Authorize(access.RouteAssigned); err != nil {
			return err
		}
		page := view.NewAssignedDevices(cmd.Context(), app.Deps(out))
		defer page.Close()
		if err := page.Load(); err != nil {
			return err
		}
		out.Devices(page.Devices())
		return nil
	},
}
