package middleware

import (
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"leavedesk/internal/platform/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		elapsed := time.Since(start)
		metrics.ObserveHTTPRequest(r.Method, strconv.Itoa(recorder.status), elapsed)
		log.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      recorder.status,
			"duration_ms": elapsed.Milliseconds(),
			"request_id":  GetRequestID(r.Context()),
		}).Info("request handled")
	})
}
