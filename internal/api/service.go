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


package api

import (
	"context"
	"fmt"
	"time"

	"finance-dashboard-go/internal/banklink"
	"finance-dashboard-go/internal/ledger"
	"finance-dashboard-go/internal/provisioning"
	"finance-dashboard-go/internal/store"
	"finance-dashboard-go/internal/transfer"
)

const healthCheckTimeout = 5 * time.Second

// DashboardService is the library surface the presentation layer calls.
type DashboardService struct {
	store        store.Store
	provisioning *provisioning.Saga
	banklink     *banklink.Saga
	ledger       *ledger.Service
	transfers    *transfer.Executor
}

func NewDashboardService(st store.Store, prov *provisioning.Saga, link *banklink.Saga, led *ledger.Service, exec *transfer.Executor) *DashboardService {
	return &DashboardService{
		store:        st,
		provisioning: prov,
		banklink:     link,
		ledger:       led,
		transfers:    exec,
	}
}

func (s *DashboardService) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
