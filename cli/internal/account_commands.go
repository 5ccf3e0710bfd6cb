package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/greenhouse/internal/domain/entities"
	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
)

func newAccountCommand() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage member accounts",
	}

	accountCmd.AddCommand(newAccountCreateCommand())
	accountCmd.AddCommand(newAccountShowCommand())
	accountCmd.AddCommand(newAccountPictureSetCommand())

	return accountCmd
}

func newAccountCreateCommand() *cobra.Command {
	var (
		firstName string
		lastName  string
		email     string
		username  string
		pass      string
		gender    string
		birthDate string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a member account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getCliContext(cmd)
			if err != nil {
				return err
			}

			born, err := time.Parse("2006-01-02", birthDate)
			if err != nil {
				return fmt.Errorf("invalid --birth-date (want YYYY-MM-DD): %w", err)
			}

			person := &entities.Person{
				FirstName: firstName,
				LastName:  lastName,
				Email:     email,
				Username:  username,
				Password:  pass,
				Gender:    entities.ParseGender(gender),
				BirthDate: born,
			}

			account, err := ctx.Accounts.CreateAccount(cmd.Context(), person)
			if err != nil {
				if errors.Is(err, repositories.ErrEmailOnFile) {
					return fmt.Errorf("email %s is already registered", email)
				}
				return err
			}

			fmt.Printf("created account %d (%s)\n", account.ID, account.FullName())
			fmt.Printf("profile: %s\n", account.ProfileURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&username, "username", "", "desired username (optional)")
	cmd.Flags().StringVar(&pass, "password", "", "initial password")
	cmd.Flags().StringVar(&gender, "gender", "male", "gender (male, female)")
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("birth-date")

	return cmd
}

func newAccountShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <username-or-email>",
		Short: "Show a member account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getCliContext(cmd)
			if err != nil {
				return err
			}

			account, err := ctx.Accounts.FindByUsername(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, repositories.ErrUsernameNotFound) {
					return fmt.Errorf("no account matches %q", args[0])
				}
				return err
			}

			fmt.Printf("id:       %d\n", account.ID)
			fmt.Printf("name:     %s\n", account.FullName())
			fmt.Printf("email:    %s\n", account.Email)
			fmt.Printf("username: %s\n", account.Username)
			fmt.Printf("profile:  %s\n", account.ProfileURL)
			fmt.Printf("picture:  %s\n", account.PictureURL)
			return nil
		},
	}
}

func newAccountPictureSetCommand() *cobra.Command {
	var accountID int64

	cmd := &cobra.Command{
		Use:   "picture-set",
		Short: "Mark a member's profile picture as uploaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getCliContext(cmd)
			if err != nil {
				return err
			}

			if err := ctx.Accounts.MarkProfilePictureSet(cmd.Context(), accountID); err != nil {
				return err
			}

			fmt.Printf("picture marked set for account %d\n", accountID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "member account ID")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
