// Command migrate manages the POS database schema.
//
//	migrate up
//	migrate steps -1
//	migrate create add_receipt_printer "printer per shop"
//	migrate seed-admin --shop 7f1c... --username owner --password s3cretpass1
//	migrate seed-templates --shop 7f1c...
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	identityapp "github.com/lats/backend/internal/application/identity"
	whatsappapp "github.com/lats/backend/internal/application/whatsapp"
	"github.com/lats/backend/internal/domain/identity"
	"github.com/lats/backend/internal/infrastructure/config"
	"github.com/lats/backend/internal/infrastructure/logger"
	"github.com/lats/backend/internal/infrastructure/migration"
	"github.com/lats/backend/internal/infrastructure/persistence"
	"github.com/lats/backend/migrations"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLevel string
	srcDir   string

	log *zap.Logger
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "LATS POS database migration tool",
	SilenceUsage:  true,
	SilenceErrors: true,
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
		if cmd.Name() == "create" || cmd.Name() == "list" {
			return nil
		}
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			logger.Sync(log)
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error { return m.Up() })
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			return errors.New("down removes all tables; rerun with --confirm")
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Down() })
	},
}

var stepsCmd = &cobra.Command{
	Use:   "steps <n>",
	Short: "Apply n migrations (negative rolls back)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n == 0 {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Steps(n) })
	},
}

var gotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.GoTo(uint(v)) })
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error {
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
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the schema version without running migrations",
	Long:  "Clears a dirty flag after a failed migration has been repaired by hand.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Force(v) })
	},
}

var createCmd = &cobra.Command{
	Use:   "create <name> [description]",
	Short: "Create the next numbered migration pair",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) == 2 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(srcDir, args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the embedded migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := migration.ListMigrations(migrations.FS)
		if err != nil {
			return err
		}
		for _, name := range list {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the first admin account for a shop",
	RunE:  runSeedAdmin,
}

var seedTemplatesCmd = &cobra.Command{
	Use:   "seed-templates",
	Short: "Add the default WhatsApp templates a shop does not have yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		shopFlag, _ := cmd.Flags().GetString("shop")
		shopID, err := uuid.Parse(shopFlag)
		if err != nil {
			return fmt.Errorf("invalid shop id: %w", err)
		}
		db, err := persistence.NewDatabase(&cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		_, err = seedTemplates(cmd.Context(), db, shopID)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	createCmd.Flags().StringVar(&srcDir, "dir", "migrations", "directory new migration files are written to")
	downCmd.Flags().Bool("confirm", false, "confirm dropping every table")

	seedAdminCmd.Flags().String("shop", "", "shop (tenant) UUID; a new one is generated when empty")
	seedAdminCmd.Flags().String("username", "admin", "admin username")
	seedAdminCmd.Flags().String("password", "", "admin password (or POS_SEED_ADMIN_PASSWORD)")
	seedAdminCmd.Flags().String("display-name", "Administrator", "display name")
	seedAdminCmd.Flags().Bool("templates", true, "also seed the default WhatsApp templates")
	seedTemplatesCmd.Flags().String("shop", "", "shop (tenant) UUID")
	_ = seedTemplatesCmd.MarkFlagRequired("shop")

	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, gotoCmd, versionCmd, forceCmd, createCmd, listCmd, seedAdminCmd, seedTemplatesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.Error("migrate failed", zap.Error(err))
			logger.Sync(log)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func withMigrator(fn func(m *migration.Migrator) error) error {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, migrations.FS, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func runSeedAdmin(cmd *cobra.Command, args []string) error {
	shopFlag, _ := cmd.Flags().GetString("shop")
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	displayName, _ := cmd.Flags().GetString("display-name")
	withTemplates, _ := cmd.Flags().GetBool("templates")
	if password == "" {
		password = os.Getenv("POS_SEED_ADMIN_PASSWORD")
	}
	if password == "" {
		return errors.New("--password or POS_SEED_ADMIN_PASSWORD is required")
	}

	shopID := uuid.New()
	if shopFlag != "" {
		parsed, err := uuid.Parse(shopFlag)
		if err != nil {
			return fmt.Errorf("invalid shop id: %w", err)
		}
		shopID = parsed
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	users := identityapp.NewUserService(persistence.NewGormUserRepository(db.DB), log)
	admin, err := users.Create(ctx, identityapp.CreateUserInput{
		TenantID:    shopID,
		Username:    username,
		Password:    password,
		DisplayName: displayName,
		Role:        identity.RoleAdmin.String(),
	})
	if err != nil {
		return err
	}
	log.Info("Admin account created", zap.String("shop_id", shopID.String()), zap.String("user_id", admin.ID.String()))
	if !withTemplates {
		return nil
	}
	_, err = seedTemplates(ctx, db, shopID)
	return err
}

func seedTemplates(ctx context.Context, db *persistence.Database, shopID uuid.UUID) (int, error) {
	defaults, err := whatsappapp.LoadDefaultTemplates(cfg.WhatsApp.TemplatesFile)
	if err != nil {
		return 0, err
	}
	templates := whatsappapp.NewTemplateService(persistence.NewGormTemplateRepository(db.DB), log)
	added, err := templates.SeedDefaults(ctx, shopID, defaults)
	if err != nil {
		return added, err
	}
	log.Info("Templates seeded",
		zap.String("shop_id", shopID.String()),
		zap.String("file", cfg.WhatsApp.TemplatesFile),
		zap.Int("added", added),
	)
	return added, nil
}
