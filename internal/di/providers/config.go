// Package providers contains dependency injection providers for the QuillPress server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/quillpress/quillpress-server/internal/config"
	"github.com/quillpress/quillpress-server/internal/logger"
)

// ProvideConfig loads configuration from the arguments registered under ArgsKey.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	args, err := do.InvokeNamed[[]string](i, ArgsKey)
	if err != nil {
		args = nil
	}
	return config.Load(args)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting QuillPress",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.App.DataPath,
		"db_driver", cfg.Database.Driver,
	)

	return log, nil
}
