package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"manzil/internal/api"
	"manzil/internal/config"
	"manzil/internal/database"
	"manzil/internal/metrics"
	"manzil/internal/notify"
	"manzil/internal/report"
	"manzil/internal/sheets"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	// .env feeds the ${VAR} placeholders in the YAML config.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("MANZIL_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.Server.APIKey == "" {
		logger.Fatal().Msg("set server.api_key in config")
	}

	store, err := database.NewStore(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	var cache *report.SummaryCache
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		cache = report.NewSummaryCache(rdb, cfg.ReportCacheTTL())
	}

	var notifier notify.Notifier
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.OwnerChatID, cfg.Telegram.Debug, &logger)
		if err != nil {
			logger.Error().Err(err).Msg("telegram notifier disabled")
		} else {
			notifier = tg
		}
	}

	limit, burst := cfg.RateLimit()
	server := api.NewHTTPServer(store, &logger, api.Options{
		Port:          cfg.Server.Port,
		APIKey:        cfg.Server.APIKey,
		DefaultLocale: cfg.Reports.DefaultLocale,
		RateLimit:     limit,
		RateBurst:     burst,
		SummaryCache:  cache,
		Notifier:      notifier,
	})

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, store, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		go startBackupLoop(ctx, store, cfg, &logger)
	}

	if cfg.Sheets.Enabled {
		go startSheetsSync(ctx, store, cfg, &logger)
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctxShutdown)
	}()

	logger.Info().Msg("manzil server started")
	if err := server.Start(); err != nil {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

func startBackupLoop(ctx context.Context, store *database.Store, cfg *config.Config, logger *zerolog.Logger) {
	if cfg.Backup.Path == "" {
		cfg.Backup.Path = "backups"
	}

	if err := os.MkdirAll(cfg.Backup.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create backup directory")
		return
	}

	// Run first backup after a short delay
	select {
	case <-time.After(1 * time.Minute):
		runBackupTask(store, cfg, logger)
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(cfg.BackupInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runBackupTask(store, cfg, logger)
		case <-ctx.Done():
			return
		}
	}
}

func runBackupTask(store *database.Store, cfg *config.Config, logger *zerolog.Logger) {
	timestamp := time.Now().Format("20060102_150405")
	dest := filepath.Join(cfg.Backup.Path, fmt.Sprintf("manzil_%s.db", timestamp))

	logger.Info().Str("path", dest).Msg("starting database backup")
	if err := store.Backup(cfg.Database.Path, dest); err != nil {
		logger.Error().Err(err).Msg("backup failed")
	} else {
		logger.Info().Msg("backup completed successfully")
	}

	deleted, err := store.CleanupBackups(cfg.Backup.Path, cfg.BackupRetention())
	if err != nil {
		logger.Error().Err(err).Msg("backup cleanup failed")
	} else if deleted > 0 {
		logger.Info().Int("deleted", deleted).Msg("cleaned up old backups")
	}
}

func startSheetsSync(ctx context.Context, store *database.Store, cfg *config.Config, logger *zerolog.Logger) {
	svc, err := sheets.NewSheetsService(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName, logger)
	if err != nil {
		logger.Error().Err(err).Msg("sheets sync disabled")
		return
	}

	runSheetsSync(ctx, store, svc, logger)

	ticker := time.NewTicker(cfg.SheetsSyncInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runSheetsSync(ctx, store, svc, logger)
		case <-ctx.Done():
			return
		}
	}
}

func runSheetsSync(ctx context.Context, store *database.Store, svc *sheets.SheetsService, logger *zerolog.Logger) {
	bookings, err := store.ListBookings(ctx, database.BookingFilter{})
	if err != nil {
		logger.Error().Err(err).Msg("sheets sync: list bookings failed")
		return
	}
	units, err := store.ListUnits(ctx, 0)
	if err != nil {
		logger.Error().Err(err).Msg("sheets sync: list units failed")
		return
	}
	names := make(map[int64]string, len(units))
	for _, u := range units {
		names[u.ID] = u.Name
	}
	if err := svc.SyncBookings(ctx, bookings, names); err != nil {
		logger.Error().Err(err).Msg("sheets sync failed")
	}
}

func startHealthServer(ctx context.Context, port int, store *database.Store, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := store.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
