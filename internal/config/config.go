package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	MailDriverSMTP = "smtp"
	MailDriverAMQP = "amqp"
	MailDriverLog  = "log"
)

type Config struct {
	// App
	Env string // dev / staging / prod
	// HTTP
	HTTPAddr string
	// Auth / Security
	JWTSecret       string
	SessionTokenTTL time.Duration
	VerifyTokenTTL  time.Duration
	BcryptCost      int

	// Infrastructure. DBAddr is optional: empty selects the in-memory
	// store, for local development without postgres.
	DBAddr    string
	RabbitURL string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Verification email. The service appends the token, so the base URL
	// must already carry the query key.
	VerifyEmailBaseURL string

	// Mail delivery: smtp | amqp | log
	MailDriver   string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPTimeout  time.Duration
	SMTPInsecure bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg.VerifyEmailBaseURL = os.Getenv("VERIFY_EMAIL_BASE_URL")
	if cfg.VerifyEmailBaseURL == "" {
		return nil, fmt.Errorf("missing required env var: VERIFY_EMAIL_BASE_URL")
	}
	if !strings.Contains(cfg.VerifyEmailBaseURL, "token=") {
		return nil, fmt.Errorf("VERIFY_EMAIL_BASE_URL must contain `token=`")
	}

	// optional with defaults
	stl, err := getDuration("SESSION_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTokenTTL = stl

	vtl, err := getDuration("VERIFY_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.VerifyTokenTTL = vtl

	cost, err := getInt("BCRYPT_COST", 0) // 0 = library default
	if err != nil {
		return nil, err
	}
	cfg.BcryptCost = cost

	cfg.DBAddr = os.Getenv("DB_ADDR")

	cfg.MailDriver = strings.ToLower(getEnv("MAIL_DRIVER", MailDriverLog))
	switch cfg.MailDriver {
	case MailDriverSMTP:
		cfg.SMTPHost = os.Getenv("SMTP_HOST")
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("MAIL_DRIVER=smtp requires SMTP_HOST")
		}
		port, err := getInt("SMTP_PORT", 587)
		if err != nil {
			return nil, err
		}
		cfg.SMTPPort = port
		cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
		cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
		cfg.SMTPFrom = os.Getenv("SMTP_FROM")
		if cfg.SMTPFrom == "" {
			return nil, fmt.Errorf("MAIL_DRIVER=smtp requires SMTP_FROM")
		}
		st, err := getDuration("SMTP_TIMEOUT", 10*time.Second)
		if err != nil {
			return nil, err
		}
		cfg.SMTPTimeout = st
		cfg.SMTPInsecure = getEnv("SMTP_INSECURE", "false") == "true"

	case MailDriverAMQP:
		cfg.RabbitURL = os.Getenv("RABBIT_URL")
		if cfg.RabbitURL == "" {
			return nil, fmt.Errorf("MAIL_DRIVER=amqp requires RABBIT_URL")
		}

	case MailDriverLog:
		// nothing to configure

	default:
		return nil, fmt.Errorf("invalid MAIL_DRIVER: %q (want smtp, amqp or log)", cfg.MailDriver)
	}

	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}
