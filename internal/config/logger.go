package config

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LogOutput is the sink shared by application and access logs.
var LogOutput io.Writer = os.Stdout

// accessLogFormat renders one JSON object per request with the same time, level
// and msg keys the slog JSON handler uses.
const accessLogFormat = `{"time":"${time}","level":"INFO","msg":"request","request_id":"${locals:requestid}",` +
	`"status":${status},"method":"${method}","path":"${path}","latency":"${latency}"}` + "\n"

// NewLogger configures the default slog logger with JSON output at the given level.
// Unknown levels fall back to info.
func NewLogger(level string) *slog.Logger {
	return newLogger(LogOutput, level)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn", "warning":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)
	return logger
}

// AccessLogConfig points fiber's request logger at w in the slog JSON shape.
// Health checks are not logged.
func AccessLogConfig(w io.Writer) logger.Config {
	return logger.Config{
		Output:     w,
		Format:     accessLogFormat,
		TimeFormat: time.RFC3339Nano,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}
}
