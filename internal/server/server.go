package server

import (
	"sneakwatch/internal/client"
	"sneakwatch/internal/database"
	"sneakwatch/internal/scheduler"
)

// Server is the GUI bridge: one HTTP endpoint per command the GUI
// sends. It never surfaces coordinator errors to the GUI; every
// command degrades to a safe fallback payload.
type Server struct {
	DB        database.Database
	Client    client.Client
	Scheduler *scheduler.Scheduler
	Logger    logger

	// DevLogging is forwarded to the scraper service config.
	DevLogging bool
}

type logger interface {
	Debug(v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
	Tracef(format string, v ...any)
}
