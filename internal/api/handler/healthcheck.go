package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type healthPayload struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := healthPayload{
			Status: "ok",
			Time:   time.Now().UTC().Format(time.RFC3339),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}
