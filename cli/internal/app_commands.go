package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
)

func newAppCommand() *cobra.Command {
	appCmd := &cobra.Command{
		Use:   "app",
		Short: "Manage connected-app credentials",
	}

	appCmd.AddCommand(newAppConnectCommand())
	appCmd.AddCommand(newAppShowCommand())
	appCmd.AddCommand(newAppInfoCommand())

	return appCmd
}

func newAppInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <api-key>",
		Short: "Show a registered application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getCliContext(cmd)
			if err != nil {
				return err
			}

			app, err := ctx.ConnectedApps.FindApp(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, repositories.ErrInvalidAPIKey) {
					return fmt.Errorf("api key %q is not a registered app", args[0])
				}
				return err
			}

			fmt.Printf("api key: %s\n", app.APIKey)
			fmt.Printf("name:    %s\n", app.Name)
			return nil
		},
	}
}

func newAppConnectCommand() *cobra.Command {
	var (
		accountID int64
		apiKey    string
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Issue an API credential for a registered app",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getCliContext(cmd)
			if err != nil {
				return err
			}

			app, err := ctx.ConnectedApps.ConnectApp(cmd.Context(), accountID, apiKey)
			if err != nil {
				if errors.Is(err, repositories.ErrInvalidAPIKey) {
					return fmt.Errorf("api key %q is not a registered app", apiKey)
				}
				return err
			}

			// Shown once; the secret is not recoverable from the CLI later.
			fmt.Printf("access token: %s\n", app.AccessToken)
			fmt.Printf("secret:       %s\n", app.Secret)
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "member account ID")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "registered application API key")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("api-key")

	return cmd
}

func newAppShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <access-token>",
		Short: "Resolve an issued credential by access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getCliContext(cmd)
			if err != nil {
				return err
			}

			app, err := ctx.ConnectedApps.FindConnectedApp(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, repositories.ErrConnectedAppNotFound) {
					return fmt.Errorf("no credential matches that access token")
				}
				return err
			}

			fmt.Printf("account: %d\n", app.AccountID)
			fmt.Printf("api key: %s\n", app.APIKey)
			fmt.Printf("issued:  %s\n", app.IssuedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
