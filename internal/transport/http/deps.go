package http

import (
	"log/slog"

	"github.com/dat-archive/internal/application/auth"
	fileapp "github.com/dat-archive/internal/application/file"
	"github.com/dat-archive/internal/application/session"
	"github.com/dat-archive/internal/application/stats"
	"github.com/dat-archive/internal/metrics"
	"github.com/dat-archive/internal/transport/http/handler"
)

// Deps holds the application services the router exposes.
type Deps struct {
	Auth      auth.Service
	Sessions  session.Service
	Files     fileapp.Service
	Stats     stats.Service
	Summaries handler.SummaryRunner
	Recorder  metrics.Recorder
	Logger    *slog.Logger
}

// PublicPrefixes are reachable without a session.
var PublicPrefixes = []string{
	"/login",
	"/api/auth/send-code",
	"/api/auth/verify-code",
}
