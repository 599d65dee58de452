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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"finance-dashboard-go/internal/models"
)

const (
	LedgerBackendSqlite   = "sqlite"
	LedgerBackendFormance = "formance"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	rollbackTimeout, err := getEnvDuration("ROLLBACK_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	httpTimeout, err := getEnvDuration("HTTP_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := getEnvDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "dashboard.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Identity: models.IdentityConfig{
			Endpoint:  getEnvString("APPWRITE_ENDPOINT", "https://cloud.appwrite.io"),
			ProjectId: os.Getenv("APPWRITE_PROJECT_ID"),
			ApiKey:    os.Getenv("APPWRITE_API_KEY"),
		},
		Plaid: models.PlaidConfig{
			Environment: getEnvString("PLAID_ENV", "sandbox"),
			ClientId:    os.Getenv("PLAID_CLIENT_ID"),
			Secret:      os.Getenv("PLAID_SECRET"),
		},
		Dwolla: models.DwollaConfig{
			Environment: getEnvString("DWOLLA_ENV", "sandbox"),
			Key:         os.Getenv("DWOLLA_KEY"),
			Secret:      os.Getenv("DWOLLA_SECRET"),
		},
		Shareable: models.ShareableConfig{
			KeyHex: os.Getenv("SHAREABLE_KEY_HEX"),
		},
		Ledger: models.LedgerConfig{
			Backend: getEnvString("LEDGER_BACKEND", LedgerBackendSqlite),
		},
		Formance: models.FormanceConfig{
			StackURL:     os.Getenv("FORMANCE_STACK_URL"),
			ClientID:     os.Getenv("FORMANCE_CLIENT_ID"),
			ClientSecret: os.Getenv("FORMANCE_CLIENT_SECRET"),
			LedgerName:   os.Getenv("FORMANCE_LEDGER_NAME"),
		},
		Saga: models.SagaConfig{
			LinkConcurrency:    getEnvInt("LINK_CONCURRENCY", 4),
			BalanceConcurrency: getEnvInt("BALANCE_CONCURRENCY", 4),
			MaxSyncPages:       getEnvInt("MAX_SYNC_PAGES", 1000),
			RollbackTimeout:    rollbackTimeout,
		},
		Http: models.HttpConfig{
			Timeout: httpTimeout,
		},
		Server: models.ServerConfig{
			Addr:           getEnvString("SERVER_ADDR", ":8080"),
			AllowedOrigins: getEnvList("SERVER_ALLOWED_ORIGINS", []string{"*"}),
			RequestTimeout: requestTimeout,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *models.Config) error {
	switch cfg.Dwolla.Environment {
	case "sandbox", "production":
	default:
		return fmt.Errorf("invalid DWOLLA_ENV %q: must be sandbox or production", cfg.Dwolla.Environment)
	}

	switch cfg.Plaid.Environment {
	case "sandbox", "development", "production":
	default:
		return fmt.Errorf("invalid PLAID_ENV %q", cfg.Plaid.Environment)
	}

	switch cfg.Ledger.Backend {
	case LedgerBackendSqlite:
	case LedgerBackendFormance:
		if cfg.Formance.StackURL == "" {
			return fmt.Errorf("FORMANCE_STACK_URL is required when LEDGER_BACKEND=%s", LedgerBackendFormance)
		}
	default:
		return fmt.Errorf("invalid LEDGER_BACKEND %q: must be %s or %s",
			cfg.Ledger.Backend, LedgerBackendSqlite, LedgerBackendFormance)
	}

	if cfg.Saga.LinkConcurrency <= 0 || cfg.Saga.BalanceConcurrency <= 0 {
		return fmt.Errorf("concurrency limits must be positive")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
