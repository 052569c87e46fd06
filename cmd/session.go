package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/psds-microservice/helpdesk-cli/internal/access"
	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, ok := app.Sessions.Session()
		if !ok {
			return fmt.Errorf("%w: run `helpdesk session import` first", errs.ErrNotLoggedIn)
		}
		out.Session(s, session.Expired(s.Token, time.Now()))
		fmt.Fprintf(cmd.OutOrStdout(), "start page %s\n", access.Landing(s.Role))
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the locally stored login",
}

var importFlags struct {
	file string
	session.Session
}

var sessionImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Store a session issued by the login service",
	Long: "Store a session issued by the login service. Pass the userDetails JSON with\n" +
		"--file (use - for stdin) or give each field as a flag.",
	Args: cobra.NoArgs,
	RunE: runSessionImport,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored session (log out)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Sessions.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

func init() {
	f := sessionImportCmd.Flags()
	f.StringVar(&importFlags.file, "file", "", "userDetails JSON file, - for stdin")
	f.StringVar(&importFlags.UserID, "user-id", "", "user id")
	f.StringVar(&importFlags.UserName, "user-name", "", "display name")
	f.StringVar(&importFlags.Email, "email", "", "email")
	f.StringVar((*string)(&importFlags.Role), "role", "", "user, admin or superadmin")
	f.StringVar(&importFlags.Token, "token", "", "bearer token")
	sessionImportCmd.MarkFlagsMutuallyExclusive("file", "user-id")
	sessionImportCmd.MarkFlagsMutuallyExclusive("file", "token")

	sessionCmd.AddCommand(sessionImportCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}

func runSessionImport(cmd *cobra.Command, args []string) error {
	s := importFlags.Session
	if importFlags.file != "" {
		data, err := readInput(cmd, importFlags.file)
		if err != nil {
			return err
		}
		var ok bool
		if s, ok = session.Decode(data); !ok {
			return fmt.Errorf("%s: not a userDetails JSON object", importFlags.file)
		}
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if err := app.Sessions.Save(s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	app.Log.Info().Str("user_id", s.UserID).Str("role", string(s.Role)).Msg("session: imported")
	fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", s.UserName, s.Role)
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
