/*
main.go - Application entry point

PURPOSE:
  Command line for the team calendar: runs the HTTP server, prints a team
  view in the terminal, or seeds the database with a demo scenario.

COMMANDS:
  serve       Start the HTTP API with graceful shutdown
  team-view   Print the team calendar of a group
  seed        Reset the database and load a demo scenario

CONFIGURATION:
  --config    YAML file (default: search ./config.yaml, ~/.teamcal, /etc/teamcal)
  --db        Overrides database.path
  TEAMCAL_*   Environment overrides, e.g. TEAMCAL_SERVER_PORT=3000
  .env        Loaded when present

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (server.shutdown_timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  teamcal seed --scenario january-2024
  teamcal team-view --group grp-engineering --date 2024-01-01
  teamcal serve --db=":memory:" --seed january-2024

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration keys and defaults
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/team-calendar/api"
	"github.com/warp/team-calendar/config"
	"github.com/warp/team-calendar/generic"
	"github.com/warp/team-calendar/logging"
	"github.com/warp/team-calendar/store/sqlite"
	"github.com/warp/team-calendar/teamview"
)

var (
	configPath string
	dbPath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "teamcal",
		Short:         "Team calendar",
		Long:          "Shows who in a group is working, on leave or off on each day of a period",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides database.path)")

	rootCmd.AddCommand(serveCmd(), teamViewCmd(), seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// WIRING
// =============================================================================

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *sqlite.Store
	service *teamview.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	svc := teamview.NewService(store, logger)
	svc.MaxConcurrency = cfg.TeamView.MaxConcurrency
	svc.PeriodType = cfg.PeriodType()
	if cfg.Holidays.CacheTTL > 0 {
		svc.Holidays = teamview.NewCachingHolidayProvider(svc.Holidays, cfg.Holidays.CacheTTL)
	}

	return &app{cfg: cfg, logger: logger, store: store, service: svc}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close database", zap.Error(err))
	}
	a.logger.Sync()
}

// =============================================================================
// COMMANDS
// =============================================================================

func serveCmd() *cobra.Command {
	var port int
	var scenario string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if port > 0 {
				a.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if scenario != "" {
				if err := api.SeedScenario(ctx, a.store, scenario); err != nil {
					return fmt.Errorf("failed to seed scenario: %w", err)
				}
				a.logger.Info("Scenario loaded", zap.String("scenario", scenario))
			}

			handler := api.NewHandler(a.store, a.service, a.logger)
			router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: a.cfg.Server.CORSOrigins})

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
				Handler:      router,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
				IdleTimeout:  a.cfg.Server.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("Server starting",
					zap.Int("port", a.cfg.Server.Port),
					zap.String("database", a.cfg.Database.Path))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.logger.Info("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}

			a.logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (overrides server.port)")
	cmd.Flags().StringVar(&scenario, "seed", "", "Load a demo scenario before serving")

	return cmd
}

func teamViewCmd() *cobra.Command {
	var groupID, date, period string

	cmd := &cobra.Command{
		Use:   "team-view",
		Short: "Print the team calendar of a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := teamview.TeamViewRequest{GroupID: teamview.GroupID(groupID)}
			if date != "" {
				d, err := generic.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				req.BaseDate = &d
			}
			if period != "" {
				pt, err := generic.ParsePeriodType(period)
				if err != nil {
					return err
				}
				req.PeriodType = pt
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			tv, err := a.service.TeamView(cmd.Context(), req)
			if err != nil {
				return err
			}
			printTeamView(cmd.OutOrStdout(), tv)
			return nil
		},
	}

	cmd.Flags().StringVarP(&groupID, "group", "g", "", "Group ID")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Base date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&period, "period", "", "calendar_month, calendar_year or iso_week")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

func seedCmd() *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the database and load a demo scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := api.SeedScenario(cmd.Context(), a.store, scenario); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded scenario %q into %s\n", scenario, a.cfg.Database.Path)
			return nil
		},
	}

	ids := make([]string, 0)
	for _, s := range api.Scenarios() {
		ids = append(ids, s.ID)
	}
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "january-2024", "Scenario: "+strings.Join(ids, ", "))

	return cmd
}

// =============================================================================
// OUTPUT
// =============================================================================

// One letter per day: W working, - non-working, H public holiday,
// L leave, ½ partial leave.
var statusSymbols = map[teamview.DayStatus]string{
	teamview.StatusWorking:       "W",
	teamview.StatusNonWorking:    "-",
	teamview.StatusPublicHoliday: "H",
	teamview.StatusLeave:         "L",
	teamview.StatusPartialLeave:  "½",
}

func printTeamView(w io.Writer, tv *teamview.TeamView) {
	fmt.Fprintf(w, "%s (%s) %s\n", tv.Group.Name, tv.Organization.Name, tv.Period)
	if !tv.Group.IncludePublicHolidays {
		fmt.Fprintln(w, "public holidays not observed")
	}

	labels := make([]string, len(tv.Entries))
	width := len("Member")
	for i, e := range tv.Entries {
		labels[i] = e.Member.FullName()
		if tv.Group.IsHead(e.Member.ID) {
			labels[i] += "*"
		}
		if n := len(labels[i]); n > width {
			width = n
		}
	}

	var header strings.Builder
	for _, d := range tv.Period.Days() {
		header.WriteString(fmt.Sprintf("%d", d.Day()%10))
	}
	fmt.Fprintf(w, "%-*s  %s\n", width, "Member", header.String())

	for i, e := range tv.Entries {
		var row strings.Builder
		for _, d := range e.Days {
			row.WriteString(statusSymbols[d.Status])
		}
		fmt.Fprintf(w, "%-*s  %s\n", width, labels[i], row.String())
	}
	fmt.Fprintln(w, "W working  - off  H public holiday  L leave  ½ partial leave  * head")
}
