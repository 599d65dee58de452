/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"context"
	"net/http"

	"finance-dashboard-go/internal/banklink"
	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/provisioning"
	"finance-dashboard-go/internal/transfer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard is the library surface the JSON API exposes.
type Dashboard interface {
	HealthCheck(ctx context.Context) error
	SignUp(ctx context.Context, params provisioning.SignUpParams) (*provisioning.Result, error)
	SignIn(ctx context.Context, email, password string) (*provisioning.Result, error)
	GetProfile(ctx context.Context, userId string) (*models.Profile, error)
	CreateLinkToken(ctx context.Context, userId string) (string, error)
	LinkBank(ctx context.Context, userId, publicToken string) (*banklink.Result, error)
	GetBanks(ctx context.Context, userId string) ([]models.Bank, error)
	GetAccounts(ctx context.Context, userId string) (*models.AccountsSummary, error)
	GetAccount(ctx context.Context, bankId string) (*models.AccountDetail, error)
	CreateTransfer(ctx context.Context, params transfer.Params) (*models.Transfer, error)
}

// NewRouter mounts the dashboard API, /health and /metrics.
func NewRouter(dashboard Dashboard, cfg models.ServerConfig, registry *prometheus.Registry) http.Handler {
	h := &Handlers{dashboard: dashboard}
	m := newMetrics(registry)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(m.instrument)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sign-up", h.SignUp)
		r.Post("/sign-in", h.SignIn)

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/profile", h.GetProfile)
			r.Post("/link-token", h.CreateLinkToken)
			r.Get("/banks", h.GetBanks)
			r.Post("/banks", h.LinkBank)
			r.Get("/accounts", h.GetAccounts)
		})

		r.Get("/banks/{bankId}/account", h.GetAccount)
		r.Post("/transfers", h.CreateTransfer)
	})

	return r
}
