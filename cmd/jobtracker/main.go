package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emilianohg/jobtracker/internal/api"
	"github.com/emilianohg/jobtracker/internal/config"
	"github.com/emilianohg/jobtracker/internal/db"
	"github.com/emilianohg/jobtracker/internal/service"
	"github.com/emilianohg/jobtracker/internal/tui"
)

const shutdownTimeout = 5 * time.Second

var rootCmd = &cobra.Command{
	Use:   "jobtracker",
	Short: "Personal job application tracker",
	Long:  `Jobtracker records the companies, contacts and job applications of a job search and reports on the pipeline.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		database := mustOpenDatabase(cfg)
		defer database.Close()

		if err := tui.Run(service.NewTracker(database)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP/JSON API",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ListenAddr = addr
		}

		database := mustOpenDatabase(cfg)
		defer database.Close()

		srv := api.NewServer(cfg, service.NewTracker(database))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Printf("[server] listening on %s (database %s)", srv.Addr, cfg.DatabasePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		case <-ctx.Done():
		}

		log.Println("[server] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[server] shutdown: %v", err)
		}
		log.Println("[server] stopped")
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer database.Close()

		before, err := db.GetMigrationStatus(database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading migration status: %v\n", err)
			os.Exit(1)
		}
		if !before.Pending && !before.Dirty {
			fmt.Printf("Database is up to date (version %d).\n", before.CurrentVersion)
			return
		}

		if err := db.RunMigrations(database); err != nil {
			fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Migrated from version %d to %d.\n", before.CurrentVersion, before.LatestVersion)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the database migration version",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer database.Close()

		status, err := db.GetMigrationStatus(database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading migration status: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Database: %s\n", cfg.DatabasePath)
		fmt.Printf("Current version: %d\n", status.CurrentVersion)
		fmt.Printf("Latest version: %d\n", status.LatestVersion)
		fmt.Printf("Pending migrations: %t\n", status.Pending)
		if status.Dirty {
			fmt.Println("Warning: database is marked dirty; a previous migration failed part way.")
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the application pipeline overview",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		database := mustOpenDatabase(cfg)
		defer database.Close()

		overview, err := service.NewTracker(database).Overview(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(overview); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		fmt.Printf("Total applications: %d\n", overview.Total)
		fmt.Printf("Conversion rate: %.2f%%\n", overview.ConversionRate)
		if len(overview.ByStatus) > 0 {
			fmt.Println("\nBy status:")
			for _, sc := range overview.ByStatus {
				fmt.Printf("  %-10s %d\n", sc.Status, sc.Count)
			}
		}
		if len(overview.ApplicationsPerWeek) > 0 {
			fmt.Println("\nPer week:")
			for _, wc := range overview.ApplicationsPerWeek {
				fmt.Printf("  %s  %d\n", wc.Week, wc.Count)
			}
		}
		if len(overview.TopCompanies) > 0 {
			fmt.Println("\nTop companies:")
			for _, cc := range overview.TopCompanies {
				fmt.Printf("  %s - %d\n", cc.Name, cc.ApplicationCount)
			}
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides listen_addr)")
	statsCmd.Flags().Bool("json", false, "Print the overview as JSON")

	migrateCmd.AddCommand(migrateStatusCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// mustOpenDatabase opens the configured database and applies pending
// migrations, so a fresh install works without a separate migrate step.
func mustOpenDatabase(cfg *config.Config) *sql.DB {
	database, err := db.OpenAndMigrate(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return database
}
