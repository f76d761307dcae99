package app

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	DatabaseFile string `env:"CRM_DATABASE_FILE" envDefault:"carisma.db"`

	// JWTSecret signs access tokens. Required outside dev.
	JWTSecret string        `env:"CRM_JWT_SECRET,required"`
	Issuer    string        `env:"CRM_JWT_ISSUER" envDefault:"carisma-crm"`
	AccessTTL time.Duration `env:"CRM_ACCESS_TTL" envDefault:"1h"`

	// AppBaseURL is the frontend origin embedded in invitation links.
	AppBaseURL string `env:"CRM_APP_BASE_URL" envDefault:"http://localhost:5173"`

	// Resend delivery. With no API key the log mailer is used instead.
	ResendAPIKey string `env:"RESEND_API_KEY"`
	MailFrom     string `env:"CRM_MAIL_FROM" envDefault:"Carisma CRM <noreply@carisma.local>"`

	ShutdownGracePeriod   time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval  time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
	InvitationRetention   time.Duration `env:"INVITATION_RETENTION" envDefault:"720h"`
}

// LoadConfig reads configuration from the environment, consulting a .env
// file for local development.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
