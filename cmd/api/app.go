package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/helha/gdpr-app/internal/auth"
	"github.com/helha/gdpr-app/internal/config"
	"github.com/helha/gdpr-app/internal/database"
	"github.com/helha/gdpr-app/internal/logger"
	"github.com/helha/gdpr-app/internal/mailer"
	"github.com/helha/gdpr-app/internal/queue"
	"github.com/helha/gdpr-app/internal/repository"
	"github.com/helha/gdpr-app/internal/service"
	"github.com/helha/gdpr-app/internal/tokenstore"
)

const connectTimeout = 10 * time.Second

// app holds the infrastructure shared by every subcommand.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	pool  *pgxpool.Pool
	redis *redis.Client
	amqp  *amqp.Connection

	tokens     tokenstore.Store
	stats      mailer.Stats
	direct     *mailer.DirectDispatcher
	dispatcher mailer.Dispatcher
	publisher  *queue.Publisher

	jwt *auth.JWTManager

	users     *service.UserService
	roles     *service.RoleService
	companies *service.CompanyService
	requests  *service.GDPRRequestService
	auth      *service.AuthService
	emails    *service.EmailService
}

type appOptions struct {
	// publish routes outgoing mail to RabbitMQ when AMQP_URL is set.
	publish bool
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.Init(cfg.Env)
	return cfg, log, nil
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, log: log}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := database.Connect(connectCtx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	a.pool = pool

	if cfg.RedisURL != "" {
		rdb, err := tokenstore.NewRedisClient(connectCtx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		a.redis = rdb
		a.tokens = tokenstore.NewRedisStore(rdb)
		a.stats = mailer.NewRedisStats(rdb)
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-process token store and email statistics")
		a.tokens = tokenstore.NewMemoryStore()
		a.stats = mailer.NewMemoryStats()
	}

	renderer, err := mailer.NewRenderer(cfg.Mail.AppName, cfg.Mail.AppURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	var sender mailer.Sender
	if cfg.SMTP.Host != "" {
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		})
	} else {
		log.Warn().Msg("SMTP_HOST not set, emails are written to the log")
		sender = mailer.NewLogSender(log)
	}
	a.direct = mailer.NewDirectDispatcher(renderer, sender, a.stats, cfg.Mail.From, log)
	a.dispatcher = a.direct

	if opts.publish && cfg.AMQP.URL != "" {
		conn, err := a.connectBroker(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		publisher, err := queue.NewPublisher(conn, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create email publisher: %w", err)
		}
		a.publisher = publisher
		a.dispatcher = publisher
	}

	a.jwt = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshTokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	rolesRepo := repository.NewPGXRolesRepository(pool)
	companiesRepo := repository.NewPGXCompaniesRepository(pool)
	requestsRepo := repository.NewPGXGDPRRequestsRepository(pool)

	a.emails = service.NewEmailService(a.dispatcher, a.stats, usersRepo, service.EmailConfig{
		AppName:     cfg.Mail.AppName,
		AppURL:      cfg.Mail.AppURL,
		AdminEmails: cfg.Mail.AdminEmails,
	}, log)
	a.users = service.NewUserService(usersRepo, rolesRepo, a.emails, log)
	a.roles = service.NewRoleService(rolesRepo, usersRepo)
	a.companies = service.NewCompanyService(companiesRepo, cfg.PhoneRegion, log)
	a.requests = service.NewGDPRRequestService(requestsRepo, usersRepo, companiesRepo, a.emails, log)
	a.auth = service.NewAuthService(usersRepo, rolesRepo, a.jwt, a.tokens, a.emails, log)

	return a, nil
}

// connectBroker dials RabbitMQ once and declares the email topology.
func (a *app) connectBroker(ctx context.Context) (*amqp.Connection, error) {
	if a.amqp != nil {
		return a.amqp, nil
	}
	conn, err := queue.Connect(ctx, a.cfg.AMQP.URL, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect rabbitmq: %w", err)
	}
	if err := queue.SetupTopology(conn, queue.Topology{
		Exchange:   a.cfg.AMQP.Exchange,
		Queue:      a.cfg.AMQP.Queue,
		RoutingKey: a.cfg.AMQP.RoutingKey,
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare email topology: %w", err)
	}
	a.amqp = conn
	return conn, nil
}

func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close email publisher")
		}
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close rabbitmq connection")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
