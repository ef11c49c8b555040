package logging

import (
	log "github.com/sirupsen/logrus"
)

// Init configures the process-wide logger: JSON lines with ELK-friendly
// field names, debug level outside production.
func Init(environment string) {
	log.SetFormatter(&log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	})
	if environment == "production" {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(log.DebugLevel)
	}
}
