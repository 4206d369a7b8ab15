package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"tasktrack/app"
	"tasktrack/config"
	"tasktrack/tui"
)

func main() {
	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogPath)

	svc := app.NewService(cfg.StatePath, log)
	svc.Load()

	if err := tui.Run(svc, time.Duration(cfg.ReminderSecs)*time.Second); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs to a file; the terminal belongs to the TUI, so when
// the log file cannot be opened logging is dropped rather than written
// over the interface.
func newLogger(path string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	log.SetOutput(f)
	return log
}
