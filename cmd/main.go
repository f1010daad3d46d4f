package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"kino-bot/config"
	telegram "kino-bot/internal/api"
	"kino-bot/internal/container"
	"kino-bot/internal/domain/entity"
	"kino-bot/internal/infrastructure/mirror"
	"kino-bot/internal/infrastructure/resolver"
	"kino-bot/internal/infrastructure/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// логгер ещё не создан
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	channels, err := entity.ParseChannels(cfg.RequiredChannels)
	if err != nil {
		logger.Fatal("invalid REQUIRED_CHANNELS", zap.Error(err))
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}
	// long polling держит запрос до 60 секунд
	api.Client = &http.Client{Timeout: 60*time.Second + cfg.HTTPTimeout}
	logger.Info("authorized", zap.String("account", api.Self.UserName))

	deps := container.Deps{
		AdminID:       cfg.AdminID,
		Catalog:       storage.NewJSONCatalogRepository(cfg.FilmsFile),
		Checker:       telegram.NewMembershipChecker(api),
		Channels:      channels,
		HTTPTimeout:   cfg.HTTPTimeout,
		MirrorTimeout: cfg.MirrorTimeout,
	}
	if cfg.AdminID == 0 {
		logger.Warn("ADMIN_ID is not set, admin commands are disabled")
	}

	// Хранилище сессий
	if cfg.RedisAddr != "" {
		sessions, err := storage.NewRedisSessionRepository(ctx, storage.RedisSessionConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		})
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = sessions.Close() }()
		deps.Sessions = sessions
		logger.Info("sessions stored in redis", zap.String("addr", cfg.RedisAddr))
	} else {
		deps.Sessions = storage.NewMemorySessionRepository()
	}

	// Реестр пользователей
	if cfg.MongoURI != "" {
		users, err := storage.NewMongoUserRepository(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			logger.Fatal("failed to connect to mongodb", zap.Error(err))
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = users.Close(closeCtx)
		}()
		deps.Users = users
		logger.Info("users stored in mongodb", zap.String("database", cfg.MongoDatabase))
	} else {
		users, err := storage.NewJSONUserRepository(cfg.UsersFile)
		if err != nil {
			logger.Fatal("failed to load users", zap.Error(err))
		}
		deps.Users = users
	}

	// Зеркала каталога
	var mirrors mirror.Multi
	if cfg.GitHubMirrorEnabled() {
		gh, err := mirror.NewGitHubMirror(mirror.GitHubConfig{
			Repo:    cfg.GitHubRepo,
			Branch:  cfg.GitHubBranch,
			Path:    cfg.GitHubPath,
			Token:   cfg.GitHubToken,
			Timeout: cfg.HTTPTimeout,
		})
		if err != nil {
			logger.Fatal("failed to create github mirror", zap.Error(err))
		}
		mirrors = append(mirrors, gh)
	}
	if cfg.DatabaseURL != "" {
		pg, err := mirror.NewPostgresMirror(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pg.Close()
		mirrors = append(mirrors, pg)
	}
	if len(mirrors) > 0 {
		deps.Mirror = mirrors
	}

	if cfg.ResolverAPIBase != "" {
		deps.Resolver = resolver.NewClient(cfg.ResolverAPIBase, cfg.HTTPTimeout)
	}

	// Собираем сервисы приложения
	appContainer := container.New(ctx, deps, logger)

	bot := telegram.NewBot(api, telegram.NewRouter(api, appContainer, logger.Named("router")), logger.Named("bot"))

	logger.Info("bot is running",
		zap.Int("mirrors", len(mirrors)),
		zap.Int("required_channels", len(channels)),
		zap.Bool("title_search", deps.Resolver != nil))
	if err := bot.Run(ctx); err != nil {
		logger.Error("bot error", zap.Error(err))
	}

	appContainer.Catalog.Wait()
	logger.Info("bot stopped")
}

func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	return logger
}

