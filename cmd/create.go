package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/psds-microservice/helpdesk-cli/internal/access"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
	"github.com/psds-microservice/helpdesk-cli/internal/view"
)

var createFlags struct {
	department string
	device     string
	priority   string
	comment    string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Raise a new ticket",
	Args:  cobra.NoArgs,
	RunE:  runCreate,
}

func init() {
	f := createCmd.Flags()
	f.StringVar(&createFlags.department, "department", "", "one of: "+strings.Join(model.Departments, ", "))
	f.StringVar(&createFlags.device, "device", "", "one of: "+strings.Join(model.Devices, ", "))
	f.StringVar(&createFlags.priority, "priority", "", "High, Medium or Low")
	f.StringVar(&createFlags.comment, "comment", "", "what is wrong (needs --device)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if _, err := app.Authorize(access.RouteCreateTicket); err != nil {
		return err
	}
	page := view.NewCreateTicket(cmd.Context(), app.Deps(out))
	defer page.Close()

	if err := page.SetDepartment(createFlags.department); err != nil {
		return err
	}
	if err := page.SetDevice(createFlags.device); err != nil {
		return err
	}
	if err := page.SetPriority(createFlags.priority); err != nil {
		return err
	}
	if createFlags.comment != "" {
		if err := page.SetAdditionalInfo(createFlags.comment); err != nil {
			return fmt.Errorf("--comment: %w", err)
		}
	}

	t, err := page.Submit()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ticket %s\n", t.ID)
	return nil
}
