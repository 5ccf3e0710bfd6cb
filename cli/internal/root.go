package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/greenhouse/internal/config"
	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
	"github.com/devilmonastery/greenhouse/internal/domain/services"
	"github.com/devilmonastery/greenhouse/internal/infrastructure/database/postgres"
	"github.com/devilmonastery/greenhouse/internal/pkg/logger"
	"github.com/devilmonastery/greenhouse/internal/pkg/password"
	"github.com/devilmonastery/greenhouse/internal/pkg/secrets"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const cliContextKey contextKey = "cliContext"

// CliContext holds shared CLI context
type CliContext struct {
	Config            *config.Config
	Conn              *postgres.Connection
	Accounts          *services.AccountService
	ConnectedAccounts *services.ConnectedAccountService
	ConnectedApps     *services.ConnectedAppService
	Logger            *slog.Logger
}

// Global flags
var (
	configPath    string
	logLevel      string
	logFile       string
	logToStderr   bool
	alsoLogStderr bool
	logFormat     string
)

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	var ctx CliContext

	rootCmd := &cobra.Command{
		Use:           "greenhouse",
		Short:         "Administer Greenhouse member identities and credentials",
		Long:          `A command line interface for managing member accounts, provider links, and connected-app credentials.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors (main.go handles it)
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(); err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}

			ctx.Logger = slog.Default().With("component", "cli")
			ctx.Logger.Debug("CLI started", "command", cmd.Name())

			// Context management works without a database.
			if isConfigCommand(cmd) {
				return nil
			}

			path := configPath
			if path == "" {
				cliConfig, err := LoadConfig()
				if err != nil {
					return fmt.Errorf("failed to load CLI config: %w", err)
				}
				if current, err := cliConfig.GetCurrentContext(); err == nil {
					path = current.ConfigFile
				}
			}

			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			ctx.Config = cfg

			conn, err := postgres.NewConnection(cfg.Database.Postgres.ConnectionString())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			ctx.Conn = conn

			codec, err := secrets.NewCodec(cfg.Security.EncryptionKey, cfg.Security.EncryptionSalt)
			if err != nil {
				return fmt.Errorf("failed to create secret codec: %w", err)
			}

			urls := services.URLConfig{
				ProfileTemplate: cfg.Profile.URLTemplate,
				PictureBase:     cfg.Profile.PictureBaseURL,
			}
			hasher := password.NewHasher(cfg.Security.BcryptCost)

			repos := postgres.NewRepositories(conn.DB)
			ctx.Accounts = services.NewAccountService(repos.Accounts, hasher, urls)
			ctx.ConnectedAccounts = services.NewConnectedAccountService(repos.ConnectedAccounts, codec, urls)
			ctx.ConnectedApps = services.NewConnectedAppService(repos.ConnectedApps, codec)

			cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey, &ctx))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if ctx.Conn != nil {
				return ctx.Conn.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path")
	rootCmd.PersistentFlags().BoolVar(&logToStderr, "log-to-stderr", false, "log to stderr instead of file")
	rootCmd.PersistentFlags().BoolVar(&alsoLogStderr, "also-log-stderr", false, "log to stderr in addition to file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newAccountCommand())
	rootCmd.AddCommand(newAppCommand())
	rootCmd.AddCommand(newProviderCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newStatusCommand())

	return rootCmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := getCliContext(cmd)
			if err != nil {
				return err
			}

			var checker repositories.HealthChecker = ctx.Conn
			if err := checker.HealthCheck(cmd.Context()); err != nil {
				return err
			}

			fmt.Println("database: ok")
			return nil
		},
	}
}

// isConfigCommand reports whether cmd lives under the "config" subtree
func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" && c.Parent() != nil && c.Parent().Parent() == nil {
			return true
		}
	}
	return false
}

// getCliContext extracts the shared context from a command
func getCliContext(cmd *cobra.Command) (*CliContext, error) {
	ctx, ok := cmd.Context().Value(cliContextKey).(*CliContext)
	if !ok || ctx == nil {
		return nil, fmt.Errorf("CLI context not initialized")
	}
	return ctx, nil
}

// setupLogging configures the default slog logger from the global flags
func setupLogging() error {
	file := logFile
	if file == "" && !logToStderr {
		file = logger.GetDefaultLogFile("cli")
	}

	log, err := logger.SetupLogger(logger.Config{
		Level:         logger.ParseLevel(logLevel),
		LogFile:       file,
		LogToStderr:   logToStderr,
		AlsoLogStderr: alsoLogStderr,
		Format:        logFormat,
	})
	if err != nil {
		return err
	}

	slog.SetDefault(log)
	return nil
}
