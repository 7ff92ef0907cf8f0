package main

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// setupLogger configures the standard logrus logger. level is any logrus
// level name, format is "text" or "json".
func setupLogger(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stdout)

	if strings.ToLower(format) == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
