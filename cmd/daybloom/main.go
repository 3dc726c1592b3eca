package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/terraincognita07/daybloom/internal/api"
	"github.com/terraincognita07/daybloom/internal/cli"
	"github.com/terraincognita07/daybloom/internal/config"
	"github.com/terraincognita07/daybloom/internal/db"
	"github.com/terraincognita07/daybloom/internal/logging"
	"github.com/terraincognita07/daybloom/internal/security"
	"github.com/terraincognita07/daybloom/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-pin" {
		flags := flag.NewFlagSet("hash-pin", flag.ExitOnError)
		generate := flags.Bool("generate", false, "generate a random six digit PIN")
		_ = flags.Parse(os.Args[2:])
		if err := cli.RunHashPINCommand(os.Stdin, os.Stdout, *generate); err != nil {
			log.Fatalf("hash-pin failed: %v", err)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	time.Local = cfg.Location

	appLogger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLogger.Sync()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, appLogger *zap.Logger) error {
	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	srv, err := newServer(lifecycleCtx, cfg, appLogger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer srv.close()
	srv.start(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	appLogger.Info("daybloom listening",
		zap.String("addr", "0.0.0.0:"+cfg.Port),
		zap.String("db", cfg.DBPath),
		zap.String("tz", cfg.Location.String()),
		zap.Bool("locked", cfg.LockEnabled()),
	)
	return srv.app.Listen(":" + cfg.Port)
}

type server struct {
	app      *fiber.App
	database *gorm.DB
	poller   *services.ReminderPoller
	watcher  *config.SeedWatcher
	closers  []func() error
	logger   *zap.Logger
}

// newServer wires storage, services and routes. Background loops are not
// started until start is called.
func newServer(ctx context.Context, cfg config.Config, appLogger *zap.Logger, registry *prometheus.Registry) (*server, error) {
	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	srv := &server{database: database, logger: appLogger}
	srv.closers = append(srv.closers, func() error {
		sqlDB, err := database.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	repos := db.NewRepositories(database)
	location := cfg.Location
	todos := services.NewTodoService(repos.Todos, repos.Notes, location)
	schedule := services.NewScheduleService(repos.Schedule, location)
	period := services.NewPeriodService(repos.Period, location)
	specialDays := services.NewSpecialDayService(repos.SpecialDays, location)

	if cfg.SeedFile != "" {
		if err := applySeed(cfg.SeedFile, schedule, period, specialDays, appLogger); err != nil {
			srv.close()
			return nil, err
		}
		watcher, err := config.NewSeedWatcher(cfg.SeedFile, schedule, period, appLogger)
		if err != nil {
			srv.close()
			return nil, err
		}
		srv.watcher = watcher
		srv.closers = append(srv.closers, watcher.Close)
	}

	secretKey := []byte(cfg.SecretKey)
	if len(secretKey) == 0 {
		if secretKey, err = security.NewSessionSecret(); err != nil {
			srv.close()
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		if cfg.LockEnabled() {
			appLogger.Warn("SECRET_KEY not set, sessions end with the process")
		}
	}

	suggester, closeSuggester, err := services.NewTaskSuggester(ctx, cfg.GeminiAPIKey, appLogger)
	if err != nil {
		srv.close()
		return nil, err
	}
	srv.closers = append(srv.closers, closeSuggester)

	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewReminderMetrics(registry)
	sender := services.NewSender(cfg.TelegramBotToken, cfg.TelegramChatID, appLogger)
	srv.poller = services.NewReminderPoller(schedule, period, sender, appLogger, location,
		services.WithReminderInterval(cfg.ReminderPollInterval),
		services.WithReminderMetrics(metrics),
	)

	handler, err := api.NewHandler(api.Services{
		Todos:       todos,
		Schedule:    schedule,
		Calendar:    services.NewCalendarService(todos, schedule, specialDays, period, location),
		Period:      period,
		SpecialDays: specialDays,
		Export:      services.NewExportService(schedule, todos, specialDays, period),
		Suggester:   suggester,
	}, api.Options{
		Location:     location,
		Logger:       appLogger,
		SecretKey:    secretKey,
		LockPINHash:  cfg.LockPINHash,
		CookieSecure: cfg.Environment == logging.EnvProduction,
		Gatherer:     registry,
	})
	if err != nil {
		srv.close()
		return nil, fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Daybloom",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)
	srv.app = app

	return srv, nil
}

func applySeed(path string, schedule *services.ScheduleService, period *services.PeriodService, specialDays *services.SpecialDayService, appLogger *zap.Logger) error {
	seed, err := config.LoadSeed(path)
	if err != nil {
		return err
	}
	if err := seed.ApplySettings(schedule, period, time.Now()); err != nil {
		return fmt.Errorf("apply seed settings: %w", err)
	}
	if err := seed.ApplyEntries(schedule, specialDays, appLogger); err != nil {
		return fmt.Errorf("apply seed entries: %w", err)
	}
	return nil
}

func (srv *server) start(ctx context.Context) {
	srv.poller.Start(ctx)
	if srv.watcher != nil {
		go srv.watcher.Run(ctx)
	}
}

func (srv *server) close() {
	for index := len(srv.closers) - 1; index >= 0; index-- {
		if err := srv.closers[index](); err != nil {
			srv.logger.Warn("close failed", zap.Error(err))
		}
	}
	srv.closers = nil
}
