package di

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/go-telegram/bot"
	"github.com/samber/do/v2"
	"github.com/samber/oops"

	auditRepo "github.com/dkrasnov/auto-caption-bot/internal/modules/audit/repository"
	auditService "github.com/dkrasnov/auto-caption-bot/internal/modules/audit/service"
	captionService "github.com/dkrasnov/auto-caption-bot/internal/modules/caption/service"
	channelRepo "github.com/dkrasnov/auto-caption-bot/internal/modules/channel/repository"
	channelService "github.com/dkrasnov/auto-caption-bot/internal/modules/channel/service"
	feedService "github.com/dkrasnov/auto-caption-bot/internal/modules/feed/service"
	menuRepo "github.com/dkrasnov/auto-caption-bot/internal/modules/menu/repository"
	menuService "github.com/dkrasnov/auto-caption-bot/internal/modules/menu/service"
	registrationService "github.com/dkrasnov/auto-caption-bot/internal/modules/registration/service"
	"github.com/dkrasnov/auto-caption-bot/internal/shared/config"
	httpServer "github.com/dkrasnov/auto-caption-bot/internal/transport/http"
	telegramTransport "github.com/dkrasnov/auto-caption-bot/internal/transport/telegram"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Channel Repository
	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		var (
			repo channelRepo.Repository
			err  error
		)
		switch cfg.StorageDriver {
		case config.StorageDriverSQLite:
			repo, err = channelRepo.NewSQLiteStorage(filepath.Join(cfg.StoragePath, "channels.db"))
		default:
			repo, err = channelRepo.NewFileStorage(cfg.StoragePath)
		}
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "storage_driver", cfg.StorageDriver, "context", "failed to initialize channel repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Audit Repository
	do.Provide(injector, func(i do.Injector) (auditRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := auditRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize audit repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Session Registry
	do.Provide(injector, func(i do.Injector) (menuRepo.Registry, error) {
		return menuRepo.NewMemory(), nil
	})

	// Register Messenger Client (bot attached later, in the Bot provider)
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Client, error) {
		return telegramTransport.NewClient(), nil
	})

	// Register Channel Service
	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		repo := do.MustInvoke[channelRepo.Repository](i)
		return channelService.New(repo), nil
	})

	// Register Audit Service
	do.Provide(injector, func(i do.Injector) (*auditService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[auditRepo.Repository](i)
		client := do.MustInvoke[*telegramTransport.Client](i)
		return auditService.New(cfg.AuditChannelID, repo, client), nil
	})

	// Register Caption Service
	do.Provide(injector, func(i do.Injector) (*captionService.Service, error) {
		channels := do.MustInvoke[*channelService.Service](i)
		auditor := do.MustInvoke[*auditService.Service](i)
		client := do.MustInvoke[*telegramTransport.Client](i)
		return captionService.New(channels, auditor, client), nil
	})

	// Register Registration Service
	do.Provide(injector, func(i do.Injector) (*registrationService.Service, error) {
		repo := do.MustInvoke[channelRepo.Repository](i)
		client := do.MustInvoke[*telegramTransport.Client](i)
		return registrationService.New(repo, client), nil
	})

	// Register Menu Service
	do.Provide(injector, func(i do.Injector) (*menuService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		channels := do.MustInvoke[*channelService.Service](i)
		sessions := do.MustInvoke[menuRepo.Registry](i)
		client := do.MustInvoke[*telegramTransport.Client](i)
		return menuService.New(channels, sessions, client, channelService.ParseBannedWords, cfg.GreetingPhotoURL), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		repo := do.MustInvoke[auditRepo.Repository](i)
		return feedService.New(repo), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[*telegramTransport.Client](i)
		menu := do.MustInvoke[*menuService.Service](i)
		captions := do.MustInvoke[*captionService.Service](i)
		registration := do.MustInvoke[*registrationService.Service](i)
		return telegramTransport.NewHandler(cfg, client, menu, captions, registration), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		server := httpServer.New(cfg, feeds)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramTransport.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}
		if cfg.TelegramAPIURL != "" {
			opts = append(opts, bot.WithServerURL(cfg.TelegramAPIURL))
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// Register bot commands
		handler.RegisterCommands(b)

		// Attach the bot to the messenger client so services can send
		client := do.MustInvoke[*telegramTransport.Client](i)
		client.SetBot(b)

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	return nil
}
