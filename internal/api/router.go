package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zacharydestefano89/travel-route-planner/internal/api/handlers"
	"github.com/zacharydestefano89/travel-route-planner/internal/ports"
	"github.com/zacharydestefano89/travel-route-planner/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// provider and store may be nil; /optimize then requires inline costs and
// /costs is not registered.
func NewRouter(provider ports.CostMatrixProvider, store ports.CostWriter, defaults services.Options) http.Handler {
	mux := http.NewServeMux()

	optimizeHandler := &handlers.OptimizeHandler{
		Provider: provider,
		Defaults: defaults,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/optimize", optimizeHandler.Optimize)
	if store != nil {
		costsHandler := &handlers.CostsHandler{Store: store}
		mux.HandleFunc("/costs", costsHandler.Put)
	}
	mux.Handle("/metrics", promhttp.Handler())

	return requestIDMiddleware(loggingMiddleware(recoveryMiddleware(mux)))
}
