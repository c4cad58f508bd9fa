package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/techquest/internal/clients/advisor"
	"github.com/aliskhannn/techquest/internal/config"
	"github.com/aliskhannn/techquest/internal/content"
	"github.com/aliskhannn/techquest/internal/delivery/telegram"
	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/infra/postgres"
	"github.com/aliskhannn/techquest/internal/infra/postgres/repository"
	"github.com/aliskhannn/techquest/internal/infra/redis"
	"github.com/aliskhannn/techquest/internal/infra/sqlite"
	"github.com/aliskhannn/techquest/internal/logger"
	"github.com/aliskhannn/techquest/internal/service"
)

func main() {
	// A missing .env file is fine outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("application stopped", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := entities.ParseTimezoneLocation(cfg.Engine.Timezone)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	provider, err := content.NewProviderFromFile(cfg.CatalogPath)
	if err != nil {
		return err
	}
	if err := service.NewCatalogService(provider, store.Catalog, lg).Sync(ctx); err != nil {
		return err
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Env == "local"
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	opts := service.Options{
		Location:    loc,
		MaxRetries:  cfg.Engine.MaxRetries,
		Parallelism: cfg.Engine.EvaluationParallelism,
		Logger:      lg,
	}

	users := service.NewUserService(store.Users, lg)

	notifiers := service.MultiNotifier{telegram.NewNotifier(bot, users, lg)}
	if cfg.Redis.Enabled() {
		pub, err := redis.NewPublisher(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.Channel,
		}, lg)
		if err != nil {
			return err
		}
		defer func() { _ = pub.Close() }()
		notifiers = append(notifiers, pub)
	}

	tracker := service.NewProgressService(store.Courses, store.Progress, opts)
	streaks := service.NewStreakService(store.Streaks, opts)
	trophies := service.NewTrophyService(store, opts)
	pipeline := service.NewPipeline(tracker, streaks, trophies, notifiers, lg)

	var adv service.Advisor
	if cfg.Advisor.APIKey != "" {
		client, err := advisor.New(advisor.Config{
			BaseURL: cfg.Advisor.BaseURL,
			APIKey:  cfg.Advisor.APIKey,
			Model:   cfg.Advisor.Model,
			Timeout: cfg.Advisor.Timeout,
			Roles:   catalogRoles(provider),
		}, lg)
		if err != nil {
			return err
		}
		adv = client
	} else {
		lg.Info("advisor api key is not set, advice commands are disabled")
	}

	reminders := service.NewReminderService(store.Streaks, store.Progress, pipeline, service.SchedulerConfig{
		ReminderSpec: cfg.Scheduler.ReminderSpec,
		SweepSpec:    cfg.Scheduler.SweepSpec,
		SweepWindow:  cfg.Scheduler.SweepWindow,
		Workers:      cfg.Scheduler.Workers,
	}, opts)
	reminders.SetNotifier(notifiers)

	handler := telegram.NewHandler(bot, lg, telegram.Services{
		Users:       users,
		Courses:     tracker,
		Pipeline:    pipeline,
		Streaks:     streaks,
		Trophies:    trophies,
		Friends:     service.NewFriendService(store, pipeline, lg),
		Leaderboard: service.NewLeaderboardService(store.Leaderboard),
		Advice:      service.NewAdviceService(adv, store.Advice, time.Now, lg),
		Questions:   provider,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handler.Run(gctx) })
	g.Go(func() error { return reminders.Start(gctx) })

	return g.Wait()
}

// openStore builds the repositories of the configured driver.
func openStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (service.Store, func(), error) {
	if cfg.DB.Driver == config.DriverSQLite {
		db, err := sqlite.Open(cfg.DB.SQLitePath)
		if err != nil {
			return service.Store{}, nil, err
		}
		lg.Info("using sqlite store", zap.String("path", cfg.DB.SQLitePath))

		closeFn := func() { _ = sqlite.Close(db) }
		return service.Store{
			Courses:     sqlite.NewCourseRepository(db),
			Progress:    sqlite.NewProgressRepository(db),
			Streaks:     sqlite.NewStreakRepository(db),
			Trophies:    sqlite.NewTrophyRepository(db),
			Catalog:     sqlite.NewCatalogRepository(db),
			Users:       sqlite.NewUserRepository(db),
			Friendships: sqlite.NewFriendshipRepository(db),
			Leaderboard: sqlite.NewLeaderboardRepository(db),
			Advice:      sqlite.NewAdviceRepository(db),
		}, closeFn, nil
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return service.Store{}, nil, err
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return service.Store{}, nil, err
	}

	tr := postgres.NewTransactor(pool)
	if err := postgres.Migrate(ctx, tr); err != nil {
		pool.Close()
		return service.Store{}, nil, err
	}
	lg.Info("using postgres store")

	return service.Store{
		Courses:     repository.NewCourseRepository(pool),
		Progress:    repository.NewProgressRepository(pool),
		Streaks:     repository.NewStreakRepository(pool),
		Trophies:    repository.NewTrophyRepository(pool),
		Catalog:     repository.NewCatalogRepository(tr),
		Users:       repository.NewUserRepository(pool),
		Friendships: repository.NewFriendshipRepository(pool),
		Leaderboard: repository.NewLeaderboardRepository(pool),
		Advice:      repository.NewAdviceRepository(pool),
	}, pool.Close, nil
}

func catalogRoles(p *content.Provider) []string {
	var roles []string
	for _, c := range p.Courses() {
		if !slices.Contains(roles, c.Role) {
			roles = append(roles, c.Role)
		}
	}
	return roles
}

func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "learn", Description: "Pick a role and a course"},
		{Command: "progress", Description: "Your progress"},
		{Command: "streak", Description: "Your daily streak"},
		{Command: "trophies", Description: "Earned and locked trophies"},
		{Command: "friends", Description: "Friends and your friend code"},
		{Command: "leaderboard", Description: "Top learners"},
		{Command: "barriers", Description: "Advice on breaking into tech"},
		{Command: "pathmatch", Description: "Match your experience to a role"},
		{Command: "help", Description: "All commands"},
	}
}
