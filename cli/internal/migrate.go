package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getCliContext(cmd)
			if err != nil {
				return err
			}

			if err := ctx.Conn.RunMigrations(); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}

			fmt.Println("migrations applied")
			return nil
		},
	}
}
