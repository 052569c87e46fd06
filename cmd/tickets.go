package cmd

import (
	"github.com/spf13/cobra"

	"github.com/psds-microservice/helpdesk-cli/internal/access"
	"github.com/psds-microservice/helpdesk-cli/internal/view"
)

var ticketsFlags struct {
	priority string
	status   string
	page     int
	pageSize int
}

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Manage every ticket (admin, superadmin)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd, args); err != nil {
			return err
		}
		_, err := app.Authorize(access.RouteViewTickets)
		return err
	},
}

var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets, optionally filtered by priority and status",
	Args:  cobra.NoArgs,
	RunE:  runTicketsList,
}

var ticketsStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change a ticket's status",
	Args:  cobra.ExactArgs(2),
	RunE:  runTicketsStatus,
}

var ticketsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a ticket with its conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := openDetails(cmd, args[0])
		if err != nil {
			return err
		}
		defer page.Close()
		t, _ := page.Ticket()
		out.TicketDetail(t, page.Thread())
		return nil
	},
}

var ticketsCommentCmd = &cobra.Command{
	Use:   "comment <id> <text>",
	Short: "Reply on a ticket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := openDetails(cmd, args[0])
		if err != nil {
			return err
		}
		defer page.Close()
		if _, err := page.AddComment(args[1]); err != nil {
			return err
		}
		out.Thread(page.Thread())
		return nil
	},
}

func init() {
	f := ticketsListCmd.Flags()
	f.StringVar(&ticketsFlags.priority, "priority", "", "only this priority (High, Medium, Low)")
	f.StringVar(&ticketsFlags.status, "status", "", "only this status")
	f.IntVar(&ticketsFlags.page, "page", 1, "page number, starting at 1")
	f.IntVar(&ticketsFlags.pageSize, "page-size", 0, "rows per page (default HELPDESK_PAGE_SIZE)")

	ticketsCmd.AddCommand(ticketsListCmd)
	ticketsCmd.AddCommand(ticketsStatusCmd)
	ticketsCmd.AddCommand(ticketsShowCmd)
	ticketsCmd.AddCommand(ticketsCommentCmd)
}

func runTicketsList(cmd *cobra.Command, args []string) error {
	page := view.NewTicketList(cmd.Context(), app.Deps(out))
	defer page.Close()

	if err := page.SetPriorityFilter(ticketsFlags.priority); err != nil {
		return err
	}
	if err := page.SetStatusFilter(ticketsFlags.status); err != nil {
		return err
	}
	if err := page.Load(); err != nil {
		return err
	}

	size := ticketsFlags.pageSize
	if size <= 0 {
		size = app.Config.PageSize
	}
	n := pageIndex(ticketsFlags.page)
	out.TicketTable(page.Page(n, size), page.Preview, n, view.PageCount(len(page.Visible()), size))
	return nil
}

func runTicketsStatus(cmd *cobra.Command, args []string) error {
	page := view.NewTicketList(cmd.Context(), app.Deps(out))
	defer page.Close()

	if err := page.Load(); err != nil {
		return err
	}
	if _, err := page.OpenStatusModal(args[0]); err != nil {
		return err
	}
	if err := page.SelectStatus(args[1]); err != nil {
		return err
	}
	_, err := page.SubmitStatus()
	return err
}

// pageIndex turns the one-based --page into the zero-based page the list uses.
func pageIndex(page int) int {
	if page < 1 {
		return 0
	}
	return page - 1
}

// openDetails gates and loads the details page for id.
func openDetails(cmd *cobra.Command, id string) (*view.TicketDetails, error) {
	if _, err := app.Authorize(access.TicketRoute(id)); err != nil {
		return nil, err
	}
	page := view.NewTicketDetails(cmd.Context(), app.Deps(out), id)
	if err := page.Load(); err != nil {
		page.Close()
		return nil, err
	}
	return page, nil
}
