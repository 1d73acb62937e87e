package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/servicehub/admin/internal/infrastructure/config"
	"github.com/servicehub/admin/internal/infrastructure/logger"
	"github.com/servicehub/admin/internal/infrastructure/migration"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var (
	// Global flags
	migrationsPath string
	logLevel       string
	configFile     string

	log *zap.Logger
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "ServiceHub database migration tool",
	Long: `Applies the versioned SQL migrations of the admin schema, scaffolds new
migration files and loads the starter catalog.

Database settings come from config.toml (or --config) and HUB_DATABASE_*
environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		log, err = logger.New(&logger.Config{
			Level:      logLevel,
			Format:     "console",
			Output:     "stdout",
			TimeFormat: "2006-01-02 15:04:05",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if configFile != "" {
			cfg, err = config.LoadFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		migrationsPath, err = resolveMigrationsPath(migrationsPath)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		return m.Up()
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		return m.Down()
	}),
}

var stepsCmd = &cobra.Command{
	Use:   "steps [n]",
	Short: "Apply n migrations, rolling back when n is negative",
	Example: `  migrate steps 1
  migrate steps -- -1`,
	Args: cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}),
}

var gotoCmd = &cobra.Command{
	Use:   "goto [version]",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(version))
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied migration version",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migration files and whether each one is applied",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		statuses, err := m.Status()
		if err != nil {
			return err
		}
		for _, s := range statuses {
			mark := "pending"
			if s.Applied {
				mark = "applied"
			}
			fmt.Printf("%d  %-8s %s\n", s.Version, mark, s.Name)
		}
		return nil
	}),
}

var forceCmd = &cobra.Command{
	Use:   "force [version]",
	Short: "Record a version as applied without running it (clears the dirty flag)",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(version)
	}),
}

var dropConfirm bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table of the database",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		if !dropConfirm {
			return fmt.Errorf("drop cancelled, pass --confirm to drop all tables")
		}
		return m.Drop()
	}),
}

var createDescription string

var createCmd = &cobra.Command{
	Use:     "create [name]",
	Short:   "Create an empty up/down migration pair",
	Example: `  migrate create "add invoice notes" --desc "Free text notes on invoices"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := migration.CreateMigration(migrationsPath, args[0], createDescription)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", f.Version),
			zap.String("up_file", f.UpPath),
			zap.String("down_file", f.DownPath),
		)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List migration files without connecting to the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, f := range files {
			fmt.Fprintf(out, "%d  %s\n", f.Version, f.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "migrations directory (default ./migrations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (default config.toml lookup)")

	dropCmd.Flags().BoolVar(&dropConfirm, "confirm", false, "confirm dropping all tables")
	createCmd.Flags().StringVar(&createDescription, "desc", "", "description written in the file header")

	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, gotoCmd, versionCmd, statusCmd,
		forceCmd, dropCmd, createCmd, listCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withMigrator opens the configured database for fn and closes it afterwards
func withMigrator(fn func(m *migration.Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log.Info("Migration CLI started",
			zap.String("command", cmd.Name()),
			zap.String("migrations_path", migrationsPath),
		)
		m, err := migration.Open(&cfg.Database, migrationsPath, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("Failed to close migrator", zap.Error(err))
			}
		}()
		return fn(m, args)
	}
}

// resolveMigrationsPath falls back to ./migrations, then to the directory two
// levels above the executable, and returns an absolute path.
func resolveMigrationsPath(path string) (string, error) {
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve migrations path: %w", err)
	}
	return abs, nil
}
