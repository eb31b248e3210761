package http

import (
	"net/http"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/domain/types"
)

func healthHandler(cfg *config) http.HandlerFunc {
	endpoints := []string{"/hooks/github"}
	if cfg.reportSource != nil {
		endpoints = append(endpoints, "/report", "/report.json")
	}
	if cfg.metrics != nil {
		endpoints = append(endpoints, "/metrics")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, &model.HealthStatus{
			Status:    "healthy",
			Service:   types.ServiceName,
			Version:   types.Version,
			Endpoints: endpoints,
		})
	}
}
