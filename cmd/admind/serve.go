package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aiignite/admind/internal/api"
	"github.com/aiignite/admind/internal/auth"
	"github.com/aiignite/admind/internal/booking"
	"github.com/aiignite/admind/internal/config"
	"github.com/aiignite/admind/internal/content"
	"github.com/aiignite/admind/internal/mentor"
	"github.com/aiignite/admind/internal/metrics"
	"github.com/aiignite/admind/internal/notify"
	"github.com/aiignite/admind/internal/team"
	"github.com/aiignite/admind/internal/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin console server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	userStore := user.NewStore(pool, cfg.Auth.SessionTTL)
	mentorStore := mentor.NewStore(pool)
	mentorService := mentor.NewService(mentorStore)
	bookingStore := booking.NewStore(pool)
	teamStore := team.NewStore(pool)
	contentService := content.NewService(content.NewStore(pool))

	auditStore := notify.NewAuditStore(pool)
	collector := notify.NewCollector(auditStore, cfg.Audit.BatchSize, cfg.Audit.FlushInterval)
	go collector.Start(ctx)

	var mailer notify.Mailer
	var broadcaster notify.Broadcaster
	if cfg.Functions.ServiceKey != "" {
		mailer = notify.NewHTTPMailer(cfg.Functions.BaseURL, cfg.Functions.ServiceKey, cfg.Functions.Timeout)
		broadcaster = notify.NewHTTPBroadcaster(cfg.Functions.BaseURL, cfg.Functions.ServiceKey, cfg.Functions.Timeout)
	} else {
		slog.Warn("no functions service key configured, logging notifications instead of sending")
		mailer = notify.NewConsoleMailer(logger)
		broadcaster = notify.NewConsoleBroadcaster(logger)
	}

	workflow := booking.NewWorkflow(bookingStore, teamStore, mentorStore, mailer, collector, logger)

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		st := pool.Stat()
		return st.TotalConns(), st.IdleConns(), st.AcquiredConns()
	})

	revocations := auth.NewRevocations()
	gate := auth.NewGate(userStore, userStore, revocations)
	gate.SetMetrics(m)

	// Periodic sweep for expired sessions.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := userStore.CleanExpiredSessions(ctx)
				if err != nil {
					slog.Error("session cleanup failed", "error", err)
				} else if n > 0 {
					slog.Info("cleaned expired sessions", "count", n)
				}
			}
		}
	}()

	router := api.NewRouter(api.RouterDeps{
		Users:       userStore,
		Gate:        gate,
		Revocations: revocations,
		Mentors:     mentorService,
		Bookings:    bookingStore,
		Workflow:    workflow,
		Teams:       teamStore,
		Content:     contentService,
		Broadcaster: broadcaster,
		Audit:       collector,
		Metrics:     m,

		LoginRateLimit:  cfg.Auth.LoginRateLimit,
		LoginRateWindow: cfg.Auth.LoginRateWindow,
		CORSOrigins:     cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	collector.Stop()

	return srv.Shutdown(shutdownCtx)
}
