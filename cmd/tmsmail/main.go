package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sphuta/tmsmail/internal/config"
	"github.com/sphuta/tmsmail/internal/dispatch"
	"github.com/sphuta/tmsmail/internal/httpapi"
	"github.com/sphuta/tmsmail/internal/schedule"
	"github.com/sphuta/tmsmail/internal/server"
	"github.com/sphuta/tmsmail/pkg/logger"
	"github.com/sphuta/tmsmail/pkg/mailer"
	"github.com/sphuta/tmsmail/pkg/mailer/logsender"
	"github.com/sphuta/tmsmail/pkg/mailer/resend"
	"github.com/sphuta/tmsmail/pkg/mailer/smtp"
	"github.com/sphuta/tmsmail/pkg/redis"
	"github.com/sphuta/tmsmail/pkg/reminder"
	"github.com/sphuta/tmsmail/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log, err := logger.NewFromConfig(cfg.Log, httpapi.RequestIDExtractor())
	if err != nil {
		slog.Error("failed to build logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	renderer := mailer.NewRendererWithConfig(templates.FS, mailer.RendererConfig{
		DefaultLayout: cfg.Mail.DefaultLayout,
	})
	var ids []string
	for _, b := range reminder.Bindings() {
		ids = append(ids, b.TemplateID)
	}
	if err := renderer.Preload(ids...); err != nil {
		return fmt.Errorf("preload templates: %w", err)
	}

	sender, err := newSender(cfg, log)
	if err != nil {
		return err
	}

	dispatcher := dispatch.New(renderer, sender,
		dispatch.WithLogger(log.With(slog.String("component", "dispatch"))),
		dispatch.WithRenderTimeout(cfg.Dispatch.RenderTimeout),
		dispatch.WithDeliverTimeout(cfg.Dispatch.DeliverTimeout),
	)

	apiOpts := []httpapi.Option{httpapi.WithLogger(log.With(slog.String("component", "http")))}
	serverOpts := []server.Option{
		server.Address(cfg.HTTP.Addr),
		server.Logger(log),
		server.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	}

	var (
		guard      schedule.Guard
		closeRedis server.Hook
	)
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis, log.With(slog.String("component", "redis")))
		if err != nil {
			return err
		}
		defer client.Close()
		guard = schedule.NewRedisGuard(client, cfg.Redis.KeyPrefix+"schedule:")
		apiOpts = append(apiOpts, httpapi.WithReadinessCheck("redis", redis.Healthcheck(client)))
		closeRedis = redis.Shutdown(client)
	}

	if cfg.Schedule.Enabled {
		sched, err := newScheduler(cfg.Schedule, dispatcher, guard, log.With(slog.String("component", "schedule")))
		if err != nil {
			return err
		}
		apiOpts = append(apiOpts, httpapi.WithRuleRunner(sched))
		serverOpts = append(serverOpts,
			server.StartHook(func(context.Context) error {
				sched.Start()
				return nil
			}),
			server.ShutdownHook(sched.Stop),
		)
	}

	// Hooks run in order: the scheduler drains before Redis closes.
	serverOpts = append(serverOpts,
		server.ShutdownHook(closeRedis),
		server.ShutdownHook(logger.FlushSentry(2*time.Second)),
	)

	api := httpapi.New(dispatcher, apiOpts...)
	return server.Run(ctx, api.Routes(), serverOpts...)
}

// newSender picks the delivery transport named by MAIL_TRANSPORT.
func newSender(cfg *config.Config, log *slog.Logger) (mailer.Sender, error) {
	switch cfg.Mail.Transport {
	case mailer.TransportSMTP:
		log.Info("mail transport: smtp", slog.String("host", cfg.SMTP.Host), slog.Int("port", cfg.SMTP.Port))
		return smtp.New(cfg.SMTP), nil
	case mailer.TransportResend:
		log.Info("mail transport: resend")
		return resend.New(cfg.Resend), nil
	case mailer.TransportLog:
		log.Warn("mail transport: log, emails will not be delivered")
		return logsender.New(log.With(slog.String("component", "mail"))), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Mail.Transport)
	}
}

func newScheduler(cfg schedule.Config, d schedule.Dispatcher, guard schedule.Guard, log *slog.Logger) (*schedule.Scheduler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("schedule timezone: %w", err)
	}

	rules := schedule.DefaultRules(cfg)
	if cfg.RulesFile != "" {
		rules, err = schedule.LoadRulesFile(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
	}

	return schedule.New(d, rules,
		schedule.WithLogger(log),
		schedule.WithLocation(loc),
		schedule.WithGuard(guard),
		schedule.WithGuardTTL(cfg.GuardTTL),
	)
}
