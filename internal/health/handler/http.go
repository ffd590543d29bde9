package handler

import (
	"net/http"

	"github.com/hashicorp/go-hclog"

	"zync/backend/internal/server/respond"
)

const (
	statusServing    = "SERVING"
	statusNotServing = "NOT_SERVING"
)

type healthResponse struct {
	Status string `json:"status"`
}

// HTTPHandler answers /healthz with 200 when every dependency is healthy and 503 otherwise.
func HTTPHandler(c *Checker, log hclog.Logger) http.HandlerFunc {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.Check(r.Context()); err != nil {
			log.Warn("health check failed", "error", err)
			respond.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: statusNotServing})
			return
		}
		respond.JSON(w, http.StatusOK, healthResponse{Status: statusServing})
	}
}
