package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	logDir      = "logs"
	logFileName = "crawl.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging returns the process logger and, when debug is set, the file backing it
// Stdout carries the display, so without debug every entry is discarded
func setupLogging(debug bool) (*logrus.Logger, *os.File) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})

	if !debug {
		logger.SetOutput(io.Discard)
		return logger, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger.SetOutput(io.Discard)
		return logger, nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("crawl-%s.log", time.Now().Format("20060102-150405")))
		os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return logger, nil
	}

	logger.SetOutput(f)
	logger.SetLevel(logrus.DebugLevel)
	return logger, f
}
