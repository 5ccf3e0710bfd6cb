package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration and contexts",
		Long:  `Manage CLI configuration including named contexts, similar to kubectl contexts.`,
	}

	cmd.AddCommand(newCurrentContextCommand())
	cmd.AddCommand(newUseContextCommand())
	cmd.AddCommand(newListContextsCommand())
	cmd.AddCommand(newAddContextCommand())
	cmd.AddCommand(newDeleteContextCommand())

	return cmd
}

func newCurrentContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current-context",
		Short: "Display the current context",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Println(config.CurrentContext)
			return nil
		},
	}
}

func newUseContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use-context CONTEXT_NAME",
		Short: "Switch to a different context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contextName := args[0]

			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := config.SetCurrentContext(contextName); err != nil {
				return err
			}

			if err := SaveConfig(config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("Switched to context %q\n", contextName)
			return nil
		},
	}
}

func newListContextsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list-contexts",
		Aliases: []string{"get-contexts"},
		Short:   "List all available contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if len(config.Contexts) == 0 {
				fmt.Println("No contexts configured")
				return nil
			}

			names := make([]string, 0, len(config.Contexts))
			for name := range config.Contexts {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "CURRENT\tNAME\tENVIRONMENT\tCONFIG FILE")

			for _, name := range names {
				ctx := config.Contexts[name]
				current := " "
				if name == config.CurrentContext {
					current = "*"
				}
				configFile := ctx.ConfigFile
				if configFile == "" {
					configFile = "(defaults)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", current, name, ctx.Environment, configFile)
			}
			w.Flush()

			return nil
		},
	}
}

func newAddContextCommand() *cobra.Command {
	var (
		configFile  string
		environment string
	)

	cmd := &cobra.Command{
		Use:   "add-context CONTEXT_NAME",
		Short: "Add or update a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contextName := args[0]

			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			config.AddContext(contextName, &Context{
				ConfigFile:  configFile,
				Environment: environment,
			})

			// The first context becomes current automatically.
			if len(config.Contexts) == 1 {
				config.CurrentContext = contextName
			}

			if err := SaveConfig(config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("Context %q added/updated\n", contextName)
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config-file", "", "server config file for this context")
	cmd.Flags().StringVar(&environment, "environment", "local", "environment label (local, dev, prod)")

	return cmd
}

func newDeleteContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-context CONTEXT_NAME",
		Short: "Delete a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contextName := args[0]

			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := config.DeleteContext(contextName); err != nil {
				return err
			}

			if err := SaveConfig(config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("Context %q deleted\n", contextName)
			return nil
		},
	}
}
