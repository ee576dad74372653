// Package logging configures the process-wide logrus logger used across
// the runner and plugin packages.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger configured from the environment: text
// formatting by default, JSON when CINCINNATI_LOG_FORMAT=json, and a level
// parsed from CINCINNATI_LOG_LEVEL (defaulting to info).
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if os.Getenv("CINCINNATI_LOG_FORMAT") == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(os.Getenv("CINCINNATI_LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
