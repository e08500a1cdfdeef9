package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	pg "newleash/internal/adapters/storage/postgres"
	"newleash/internal/platform/config"
	"newleash/internal/platform/logger"
	"newleash/internal/router"
	"newleash/internal/seed"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "newleash",
	Short: "NewLeash pet-adoption GraphQL API",
	Long: `NewLeash sirve la API GraphQL de adopción de mascotas: perfiles, mascotas
locales y espejadas del listado externo, refugios, foro e imágenes.

Sin subcomando arranca el servidor (igual que "newleash serve").`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Postgres schema (idempotent)",
	RunE:  runMigrate,
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load YAML fixtures into the configured database",
	Long: `Carga perfiles, mascotas, refugios y threads desde un archivo YAML.

Example:
  newleash seed --file seed.yaml`,
	RunE: runSeed,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "YAML fixtures file")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup carga config y logger; todos los subcomandos lo comparten.
func setup() (config.Config, logger.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	return cfg, log, nil
}

func openDB(ctx context.Context, cfg config.Config, migrate bool) (*sql.DB, error) {
	if cfg.DatabaseDSN == "" {
		return nil, nil
	}
	db, err := pg.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if migrate {
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.DatabaseDSN == "" {
		return errors.New("migrate: DB_DSN is not set")
	}
	db, err := openDB(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info("schema migrated", nil)
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Con el store en memoria los datos morirían con el proceso.
	if cfg.DatabaseDSN == "" {
		return errors.New("seed: DB_DSN is not set")
	}

	f, err := seed.Load(seedFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := openDB(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := router.BuildServices(router.Options{DB: db, Logger: log})
	res, err := seed.Apply(ctx, seed.Services{
		Profiles: svc.Profiles,
		Pets:     svc.Pets,
		Forum:    svc.Forum,
		Shelters: svc.Shelters,
	}, f, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d profiles, %d pets, %d shelters, %d threads, %d comments\n",
		res.Profiles, res.Pets, res.Shelters, res.Threads, res.Comments)
	return nil
}
