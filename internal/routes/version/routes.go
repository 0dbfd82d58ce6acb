package version

import (
	"os/exec"
	"runtime/debug"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/TechHon-P/othello-game/internal/models"
)

var Version = loadVersion()

// loadVersion prefers the revision stamped by the Go toolchain, and falls back to asking git.
func loadVersion() models.VersionResponse {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return models.VersionResponse{Commit: setting.Value}
			}
		}
	}

	output, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return models.VersionResponse{Commit: "unknown"}
	}

	return models.VersionResponse{Commit: strings.TrimSpace(string(output))}
}

func SetupRoutes(app *fiber.App) {
	versionGroup := app.Group("/version")
	versionGroup.Get("/", versionHandler)
}

func versionHandler(c *fiber.Ctx) error {
	return c.JSON(Version)
}
