package middleware

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Logging middleware that logs status code, response time, route and handler errors to stderr.
func Logging() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} | ${path} ${error}\n",
		TimeFormat: time.DateTime,
		TimeZone:   "Local",
		Output:     os.Stderr,
		CustomTags: map[string]logger.LogFunc{
			"latency": func(output logger.Buffer, _ *fiber.Ctx, data *logger.Data, _ string) (int, error) {
				latency := data.Stop.Sub(data.Start).Seconds() * 1000
				return fmt.Fprintf(output, "%6.1fms", latency)
			},
		},
	})
}
