package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dskvich/ai-assistant/pkg/api/handler"
)

func NewRouter(assistant handler.Assistant) (http.Handler, error) {
	web, err := handler.NewWeb(assistant)
	if err != nil {
		return nil, fmt.Errorf("creating web handler: %w", err)
	}
	api := handler.NewAPI(assistant)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", web.Index)
	r.Post("/describe", web.Describe)
	r.Post("/generate", web.Generate)

	r.Route("/api", func(r chi.Router) {
		r.Post("/describe", api.Describe)
		r.Post("/generate", api.Generate)
		r.Get("/history", api.History)
		r.Get("/history/{id}", api.SavedResponse)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r, nil
}
