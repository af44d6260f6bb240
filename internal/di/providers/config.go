// Package providers contains dependency injection providers for the tublog server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/tublog/tublog-server/internal/config"
	"github.com/tublog/tublog-server/internal/logger"
	"github.com/tublog/tublog-server/internal/validation"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.IsDevelopment(),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting tublog",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.Storage.DataDir,
		"db_path", cfg.Storage.DBPath,
	)

	return log, nil
}

// ProvideValidator provides the shared form validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
