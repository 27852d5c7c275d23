package bootstrap

import (
	"database/sql"
	"net/http"

	"github.com/jobdesk/auth-service/internal/application/auth"
	"github.com/jobdesk/auth-service/internal/config"
	"github.com/jobdesk/auth-service/internal/infrastructure/db/postgres"
	"github.com/jobdesk/auth-service/internal/infrastructure/mail"
	"github.com/jobdesk/auth-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/jobdesk/auth-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/jobdesk/auth-service/internal/infrastructure/security"
	"github.com/jobdesk/auth-service/internal/logger"
	http_handlers "github.com/jobdesk/auth-service/internal/transport/http/handlers"
	"github.com/jobdesk/auth-service/internal/transport/http/middleware"
	"github.com/jobdesk/auth-service/internal/transport/http/response"
	"github.com/jobdesk/auth-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string) (*sql.DB, error)

	NewMailer func(cfg *config.Config) (auth.Mailer, func(), error)

	NewRouter func(router.Deps) (http.Handler, error)
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) user repo: postgres when DB_ADDR is set, in-memory otherwise
	var userRepo auth.UserRepo
	var sqlDB *sql.DB
	if cfg.DBAddr != "" {
		sqlDB, err = deps.NewDB(cfg.DBAddr)
		if err != nil {
			return nil, nil, err
		}
		cleanupFns = append(cleanupFns, func() { _ = sqlDB.Close() })
		userRepo = postgres.NewUserRepo(sqlDB)
		logger.Logger.Info().Msg("using postgres user store")
	} else {
		userRepo = memory.NewUserRepo()
		logger.Logger.Warn().Msg("DB_ADDR not set; using in-memory user store")
	}

	// 2) security
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, "auth-service")

	// 3) mailer
	mailer, mailCleanup, err := deps.NewMailer(cfg)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}
	if mailCleanup != nil {
		cleanupFns = append(cleanupFns, mailCleanup)
	}

	// 4) service
	authSvc := auth.NewService(
		userRepo,
		hasher,
		signer,
		mailer,
		auth.Config{
			SessionTokenTTL:    cfg.SessionTokenTTL,
			VerifyTokenTTL:     cfg.VerifyTokenTTL,
			VerifyEmailBaseURL: cfg.VerifyEmailBaseURL,
		},
	)

	authSvc = authSvc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	// 5) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(signer, response.WriteError)

	// 6) router
	mux, err := deps.NewRouter(router.Deps{
		Health: healthH,
		Auth:   authH,
		AuthMW: authMW,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 7) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

// newMailer picks the delivery driver configured by MAIL_DRIVER.
func newMailer(cfg *config.Config) (auth.Mailer, func(), error) {
	switch cfg.MailDriver {
	case config.MailDriverSMTP:
		sender := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Timeout:  cfg.SMTPTimeout,
			Insecure: cfg.SMTPInsecure,
		}, logger.Logger)
		return sender, nil, nil

	case config.MailDriverAMQP:
		pub, err := rabbitmq_pub.NewPublisher(cfg.RabbitURL)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using log mailer")
				return mail.NewLogSender(logger.Logger), nil, nil
			}
			return nil, nil, err
		}
		return pub, func() { _ = pub.Close() }, nil

	default:
		return mail.NewLogSender(logger.Logger), nil, nil
	}
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewMailer:  newMailer,
		NewRouter:  router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
