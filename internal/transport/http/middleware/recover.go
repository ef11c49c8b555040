package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"leavedesk/internal/transport/http/api"
)

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(log.Fields{
					"panic":      rec,
					"path":       r.URL.Path,
					"request_id": GetRequestID(r.Context()),
				}).Error("panic recovered")
				api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", GetRequestID(r.Context()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
