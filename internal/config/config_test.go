package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("padrões = %+v", cfg)
	}
	if cfg.GoalGrowthRate != 0.15 || cfg.GoalWeeksPerMonth != 4 || cfg.GoalWorkingDays != 5 {
		t.Errorf("metas = %v %d %d", cfg.GoalGrowthRate, cfg.GoalWeeksPerMonth, cfg.GoalWorkingDays)
	}
	if cfg.CacheTTL != 5*time.Minute || cfg.SalesBackend != SalesBackendFirestore {
		t.Errorf("cache = %v, backend = %s", cfg.CacheTTL, cfg.SalesBackend)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("esperava erro sem JWT_SECRET")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{JWTSecret: "x", GoalWeeksPerMonth: 4, GoalWorkingDays: 5, MaxUploadMB: 20, SalesBackend: SalesBackendFirestore}
	if err := valid.Validate(); err != nil {
		t.Fatalf("config válida rejeitada: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"sem segredo", func(c *Config) { c.JWTSecret = "" }},
		{"semanas zeradas", func(c *Config) { c.GoalWeeksPerMonth = 0 }},
		{"dias negativos", func(c *Config) { c.GoalWorkingDays = -1 }},
		{"crescimento negativo", func(c *Config) { c.GoalGrowthRate = -0.1 }},
		{"postgres sem url", func(c *Config) { c.SalesBackend = SalesBackendPostgres }},
		{"backend desconhecido", func(c *Config) { c.SalesBackend = "mongo" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("esperava erro de validação")
			}
		})
	}
}
