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

// Package plaid is the bank aggregator adapter.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/external"
	"finance-dashboard-go/internal/models"

	"go.uber.org/zap"
)

const (
	serviceName = "aggregator"

	// processorDwolla names the payment network processor tokens are minted for.
	processorDwolla = "dwolla"

	syncPageSize = 100

	linkLanguage = "en"
)

var (
	linkProducts     = []string{"auth", "transactions", "identity"}
	linkCountryCodes = []string{"US"}
)

var baseURLs = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

// Compile-time check: *Client must satisfy external.BankAggregator.
var _ external.BankAggregator = (*Client)(nil)

type Client struct {
	baseURL    string
	clientId   string
	secret     string
	httpClient *http.Client
}

// BaseURL returns the API host for a Plaid environment.
func BaseURL(environment string) (string, error) {
	u, ok := baseURLs[strings.ToLower(environment)]
	if !ok {
		return "", fmt.Errorf("invalid plaid environment %q: must be sandbox, development or production", environment)
	}
	return u, nil
}

func NewClient(cfg models.PlaidConfig, httpClient *http.Client) (*Client, error) {
	baseURL, err := BaseURL(cfg.Environment)
	if err != nil {
		return nil, err
	}
	return newClient(baseURL, cfg, httpClient)
}

func newClient(baseURL string, cfg models.PlaidConfig, httpClient *http.Client) (*Client, error) {
	if cfg.ClientId == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("plaid config requires client id and secret")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientId:   cfg.ClientId,
		secret:     cfg.Secret,
		httpClient: httpClient,
	}, nil
}

// CreateLinkToken starts a Link session for the user. The public token the
// session yields is what ExchangePublicToken consumes.
func (c *Client) CreateLinkToken(ctx context.Context, userId, clientName string) (string, error) {
	var resp linkTokenResponse
	req := map[string]any{
		"user":          map[string]string{"client_user_id": userId},
		"client_name":   clientName,
		"products":      linkProducts,
		"country_codes": linkCountryCodes,
		"language":      linkLanguage,
	}
	if err := c.do(ctx, "create link token", "/link/token/create", req, &resp); err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*models.ItemCredentials, error) {
	var resp models.ItemCredentials
	req := map[string]any{"public_token": publicToken}
	if err := c.do(ctx, "exchange public token", "/item/public_token/exchange", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListAccounts(ctx context.Context, accessToken string) (*models.ItemAccounts, error) {
	var resp accountsGetResponse
	req := map[string]any{"access_token": accessToken}
	if err := c.do(ctx, "list accounts", "/accounts/get", req, &resp); err != nil {
		return nil, err
	}
	return &models.ItemAccounts{
		Accounts:      resp.Accounts,
		ItemId:        resp.Item.ItemId,
		InstitutionId: resp.Item.InstitutionId,
	}, nil
}

func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string) (*models.SyncPage, error) {
	var resp transactionsSyncResponse
	req := map[string]any{
		"access_token": accessToken,
		"count":        syncPageSize,
	}
	if cursor != "" {
		req["cursor"] = cursor
	}
	if err := c.do(ctx, "sync transactions", "/transactions/sync", req, &resp); err != nil {
		return nil, err
	}

	page := &models.SyncPage{
		Added:      make([]models.ExternalTransaction, 0, len(resp.Added)),
		NextCursor: resp.NextCursor,
		HasMore:    resp.HasMore,
	}
	for _, tx := range resp.Added {
		converted, err := tx.toModel()
		if err != nil {
			return nil, fmt.Errorf("failed to decode transaction %s: %w", tx.TransactionId, err)
		}
		page.Added = append(page.Added, converted)
	}
	return page, nil
}

func (c *Client) GetInstitution(ctx context.Context, institutionId string) (*models.Institution, error) {
	var resp institutionGetResponse
	req := map[string]any{
		"institution_id": institutionId,
		"country_codes":  []string{"US"},
	}
	if err := c.do(ctx, "get institution", "/institutions/get_by_id", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Institution, nil
}

func (c *Client) CreateProcessorToken(ctx context.Context, accessToken, accountId string) (string, error) {
	var resp processorTokenResponse
	req := map[string]any{
		"access_token": accessToken,
		"account_id":   accountId,
		"processor":    processorDwolla,
	}
	if err := c.do(ctx, "create processor token", "/processor/token/create", req, &resp); err != nil {
		return "", err
	}
	return resp.ProcessorToken, nil
}

// do posts a JSON body with the client credentials merged in. Every Plaid endpoint is a POST.
func (c *Client) do(ctx context.Context, operation, path string, body map[string]any, target any) error {
	body["client_id"] = c.clientId
	body["secret"] = c.secret

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	zap.L().Debug("Aggregator request", zap.String("path", path))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.FromTransport(serviceName, operation, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.FromTransport(serviceName, operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.Unmarshal(respBody, &apiErr)
		msg := apiErr.ErrorMessage
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		zap.L().Warn("Aggregator returned non-success status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("error_type", apiErr.ErrorType),
			zap.String("error_code", apiErr.ErrorCode),
			zap.String("request_id", apiErr.RequestId))
		return apperrors.FromStatus(serviceName, operation, resp.StatusCode, apiErr.ErrorCode, errors.New(msg))
	}

	if err := json.Unmarshal(respBody, target); err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}
	return nil
}
