package app

import "fmt"

// Build metadata, overridden via ldflags on release builds:
//
//	go build -ldflags "-X github.com/paz-dev-com/catalog-backend/internal/app.Version=1.2.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion renders the build metadata for startup logs and the health
// endpoint.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
