package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"sneakwatch/internal/client"
	"sneakwatch/internal/configuration"
	"sneakwatch/internal/database"
	"sneakwatch/internal/logger"
	"sneakwatch/internal/notify"
	"sneakwatch/internal/scheduler"
	"sneakwatch/internal/server"
	"sneakwatch/internal/store"
)

func runApp() error {
	appContext := context.Background()
	logOutput := io.Writer(os.Stdout)
	appLogger := logger.NewLogger(logger.LevelError, logOutput)

	defer func() {
		if r := recover(); r != nil {
			appLogger.Errorf("APPLICATION CRASHED: %+v", r)
		}
	}()

	config, err := configuration.GetConfig("config.toml")
	if err != nil {
		appLogger.Error("Error getting configuration from config.toml:", err)
		return err
	}

	if config.LogToFile {
		logFile, err := os.OpenFile("sneakwatch.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			appLogger.Error("Error opening log file:", err)
			return err
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				appLogger.Error("Error closing log file:", err)
			}
		}()
		logOutput = io.MultiWriter(logOutput, logFile)
	}
	appLogger = logger.NewLogger(config.LogLevel, logOutput)

	devLogging := config.LogLevel >= logger.LevelDebug
	if devLogging {
		conf, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			appLogger.Error("Error marshalling Config to JSON:", err)
			return err
		}
		appLogger.Debugf("Config:\n%s", conf)
	}

	appLogger.Info("Opening store at", config.StorePath)
	st, err := store.Open(config.StorePath)
	if err != nil {
		appLogger.Error("Error opening store:", err)
		return err
	}

	db := database.Database{
		Store:  st,
		Logger: appLogger,
	}
	openedCount := db.IncrementOpenedCount()
	appLogger.Infof("Opened %d time(s)", openedCount)

	scraperClient := client.Client{
		Client:  &http.Client{Timeout: 60 * time.Second},
		BaseURL: config.ScraperAddress,
		Logger:  appLogger,
	}

	sched := &scheduler.Scheduler{
		DB:         db,
		Client:     scraperClient,
		Notifier:   notify.Desktop{},
		Logger:     appLogger,
		DevLogging: devLogging,
		JitterMax:  scheduler.DefaultJitterMax,
	}
	appLogger.Info("Starting scheduler with update interval:", db.Settings().UpdateInterval, "minute(s)")
	sched.Run(appContext)

	srv := server.Server{
		DB:         db,
		Client:     scraperClient,
		Scheduler:  sched,
		Logger:     appLogger,
		DevLogging: devLogging,
	}

	httpSrv := &http.Server{
		Handler:      srv.Router(),
		Addr:         config.ServerAddress,
		WriteTimeout: 90 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	appLogger.Info("Serving on", httpSrv.Addr)
	return httpSrv.ListenAndServe()
}
