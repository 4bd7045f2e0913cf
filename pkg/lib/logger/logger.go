package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	constants "smartswiggy/pkg/config"
	"smartswiggy/pkg/lib/logger/handler/slogpretty"
)

const serviceName = "smartswiggy"

func SetupLogger(env string) (*slog.Logger, error) {
	return New(env, os.Stdout)
}

// New builds the logger for env: colored text locally, JSON elsewhere.
func New(env string, out io.Writer) (*slog.Logger, error) {
	var handler slog.Handler

	switch env {
	case constants.EnvLocal:
		opts := slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
		}
		handler = opts.NewPrettyHandler(out)
	case constants.EnvDev:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	case constants.EnvProd:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return nil, fmt.Errorf("failed to init logger: wrong env %q", env)
	}

	return slog.New(handler).With(slog.String("service", serviceName), slog.String("env", env)), nil
}
