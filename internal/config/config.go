// Package config carrega a configuração do serviço a partir do ambiente (.env opcional).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Backends aceitos para o repositório de vendas transacionais.
const (
	SalesBackendFirestore = "firestore"
	SalesBackendPostgres  = "postgres"
)

// Config reúne as variáveis de ambiente do serviço.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	FirestoreProjectID  string `envconfig:"FIRESTORE_PROJECT_ID" default:"metas-vendas"`
	FirestoreDatabaseID string `envconfig:"FIRESTORE_DATABASE_ID" default:"(default)"`

	SalesBackend string `envconfig:"SALES_BACKEND" default:"firestore"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`

	GoalGrowthRate    float64       `envconfig:"GOAL_GROWTH_RATE" default:"0.15"`
	GoalWeeksPerMonth int           `envconfig:"GOAL_WEEKS_PER_MONTH" default:"4"`
	GoalWorkingDays   int           `envconfig:"GOAL_WORKING_DAYS" default:"5"`
	CacheTTL          time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	MaxUploadMB       int64         `envconfig:"MAX_UPLOAD_MB" default:"20"`
}

// Load lê o arquivo .env, se existir, e depois as variáveis de ambiente.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("erro ao ler .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("erro ao ler configuração: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejeita combinações que impedem o serviço de subir.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET é obrigatória"))
	}
	if c.GoalWeeksPerMonth <= 0 {
		errs = append(errs, fmt.Errorf("GOAL_WEEKS_PER_MONTH deve ser positivo: %d", c.GoalWeeksPerMonth))
	}
	if c.GoalWorkingDays <= 0 {
		errs = append(errs, fmt.Errorf("GOAL_WORKING_DAYS deve ser positivo: %d", c.GoalWorkingDays))
	}
	if c.GoalGrowthRate < 0 {
		errs = append(errs, fmt.Errorf("GOAL_GROWTH_RATE não pode ser negativo: %v", c.GoalGrowthRate))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB deve ser positivo: %d", c.MaxUploadMB))
	}
	switch c.SalesBackend {
	case SalesBackendFirestore:
	case SalesBackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL é obrigatória com SALES_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("SALES_BACKEND inválido: %q", c.SalesBackend))
	}
	return errors.Join(errs...)
}

// IsProduction reporta se ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
