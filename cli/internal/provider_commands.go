package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
)

func newProviderCommand() *cobra.Command {
	providerCmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage provider account links",
	}

	providerCmd.AddCommand(newProviderConnectCommand())
	providerCmd.AddCommand(newProviderDisconnectCommand())

	return providerCmd
}

func newProviderConnectCommand() *cobra.Command {
	var (
		accountID      int64
		provider       string
		accessToken    string
		providerUserID string
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Link a member to an external provider account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getCliContext(cmd)
			if err != nil {
				return err
			}

			token := &oauth2.Token{AccessToken: accessToken}
			err = ctx.ConnectedAccounts.ConnectAccount(cmd.Context(), accountID, provider, token, providerUserID)
			if err != nil {
				if errors.Is(err, repositories.ErrAccountAlreadyConnected) {
					return fmt.Errorf("account %d is already connected to %s", accountID, provider)
				}
				return err
			}

			fmt.Printf("account %d connected to %s\n", accountID, provider)
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "member account ID")
	cmd.Flags().StringVar(&provider, "provider", "", "provider name (e.g. facebook)")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "provider access token")
	cmd.Flags().StringVar(&providerUserID, "provider-user-id", "", "provider-side user ID")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("access-token")
	_ = cmd.MarkFlagRequired("provider-user-id")

	return cmd
}

func newProviderDisconnectCommand() *cobra.Command {
	var (
		accountID int64
		provider  string
	)

	cmd := &cobra.Command{
		Use:   "disconnect",
		Short: "Remove a member's link to an external provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getCliContext(cmd)
			if err != nil {
				return err
			}

			if err := ctx.ConnectedAccounts.DisconnectAccount(cmd.Context(), accountID, provider); err != nil {
				return err
			}

			fmt.Printf("account %d disconnected from %s\n", accountID, provider)
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "member account ID")
	cmd.Flags().StringVar(&provider, "provider", "", "provider name")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}
