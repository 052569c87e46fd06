package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/psds-microservice/helpdesk-cli/internal/access"
	"github.com/psds-microservice/helpdesk-cli/internal/render"
	"github.com/psds-microservice/helpdesk-cli/internal/view"
)

var myTicketsCmd = &cobra.Command{
	Use:     "mytickets",
	Aliases: []string{"my"},
	Short:   "Tickets you raised",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd, args); err != nil {
			return err
		}
		_, err := app.Authorize(access.RouteMyTickets)
		return err
	},
}

var myTicketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tickets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page := view.NewMyTickets(cmd.Context(), app.Deps(out))
		defer page.Close()
		if err := page.Load(); err != nil {
			return err
		}
		out.TicketCards(page.Tickets(), page.Summary)
		return nil
	},
}

var myTicketsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one ticket with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page := view.NewMyTickets(cmd.Context(), app.Deps(out))
		defer page.Close()
		t, err := page.Open(args[0])
		if err != nil {
			return err
		}
		out.TicketDetail(t, view.ThreadOf(t))
		return nil
	},
}

var myTicketsCommentCmd = &cobra.Command{
	Use:   "comment <id> <text>",
	Short: "Add a comment to one of your tickets",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page := view.NewMyTickets(cmd.Context(), app.Deps(out))
		defer page.Close()
		if _, err := page.Open(args[0]); err != nil {
			return err
		}
		t, err := page.AddComment(args[1])
		if err != nil {
			return err
		}
		out.Thread(view.ThreadOf(t))
		return nil
	},
}

var deleteYes bool

var myTicketsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a ticket that is still pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page := view.NewMyTickets(cmd.Context(), app.Deps(out))
		defer page.Close()
		if err := page.Load(); err != nil {
			return err
		}
		return page.Delete(args[0], render.NewPrompt(os.Stdin, cmd.ErrOrStderr(), deleteYes))
	},
}

func init() {
	myTicketsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")

	myTicketsCmd.AddCommand(myTicketsListCmd)
	myTicketsCmd.AddCommand(myTicketsShowCmd)
	myTicketsCmd.AddCommand(myTicketsCommentCmd)
	myTicketsCmd.AddCommand(myTicketsDeleteCmd)
}
