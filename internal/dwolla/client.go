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

// Package dwolla is the payment network adapter. Requests are authenticated
// with an OAuth2 client-credentials token and exchange HAL+JSON documents.
package dwolla

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/external"
	"finance-dashboard-go/internal/models"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	serviceName   = "payment network"
	halMediaType  = "application/vnd.dwolla.v1.hal+json"
	transferAsset = "USD"
)

var baseURLs = map[string]string{
	"sandbox":    "https://api-sandbox.dwolla.com",
	"production": "https://api.dwolla.com",
}

// Compile-time check: *Client must satisfy external.PaymentNetwork.
var _ external.PaymentNetwork = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// BaseURL returns the API host for a Dwolla environment.
func BaseURL(environment string) (string, error) {
	u, ok := baseURLs[environment]
	if !ok {
		return "", fmt.Errorf("invalid dwolla environment %q: must be sandbox or production", environment)
	}
	return u, nil
}

func NewClient(cfg models.DwollaConfig, httpClient *http.Client) (*Client, error) {
	baseURL, err := BaseURL(cfg.Environment)
	if err != nil {
		return nil, err
	}
	return newClient(baseURL, cfg, httpClient)
}

func newClient(baseURL string, cfg models.DwollaConfig, httpClient *http.Client) (*Client, error) {
	if cfg.Key == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("dwolla config requires key and secret")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")

	oauthCfg := clientcredentials.Config{
		ClientID:     cfg.Key,
		ClientSecret: cfg.Secret,
		TokenURL:     baseURL + "/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	// token fetches and API calls share the same transport
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	authed := oauthCfg.Client(tokenCtx)
	authed.Timeout = httpClient.Timeout

	return &Client{
		baseURL:    baseURL,
		httpClient: authed,
	}, nil
}

type link struct {
	Href string `json:"href"`
}

type fundingSourceRequest struct {
	Name       string           `json:"name"`
	PlaidToken string           `json:"plaidToken"`
	Links      models.AuthLinks `json:"_links"`
}

type transferRequest struct {
	Links struct {
		Source      link `json:"source"`
		Destination link `json:"destination"`
	} `json:"_links"`
	Amount struct {
		Currency string `json:"currency"`
		Value    string `json:"value"`
	} `json:"amount"`
}

type onDemandAuthorizationResponse struct {
	Links models.AuthLinks `json:"_links"`
}

type errorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Embedded struct {
		Errors []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Path    string `json:"path"`
		} `json:"errors"`
	} `json:"_embedded"`
}

func (e errorResponse) message() string {
	parts := []string{e.Message}
	for _, sub := range e.Embedded.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", sub.Path, sub.Message))
	}
	return strings.Join(parts, "; ")
}

// CreateCustomer creates a personal verified customer and returns its URL.
func (c *Client) CreateCustomer(ctx context.Context, customer models.NewCustomer) (string, error) {
	if customer.Type == "" {
		customer.Type = "personal"
	}
	location, err := c.do(ctx, "create customer", c.baseURL+"/customers", customer, nil)
	if err != nil {
		return "", err
	}
	zap.L().Info("Payment customer created", zap.String("customer_url", location))
	return location, nil
}

func (c *Client) CreateOnDemandAuthorization(ctx context.Context) (models.AuthLinks, error) {
	var resp onDemandAuthorizationResponse
	if _, err := c.do(ctx, "create on-demand authorization", c.baseURL+"/on-demand-authorizations", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return resp.Links, nil
}

func (c *Client) CreateFundingSource(ctx context.Context, params models.FundingSourceParams) (string, error) {
	if params.CustomerId == "" {
		return "", apperrors.NewValidation("customer_id", "is required")
	}
	endpoint := fmt.Sprintf("%s/customers/%s/funding-sources", c.baseURL, url.PathEscape(params.CustomerId))
	req := fundingSourceRequest{
		Name:       params.Name,
		PlaidToken: params.ProcessorToken,
		Links:      params.AuthLinks,
	}
	location, err := c.do(ctx, "create funding source", endpoint, req, nil)
	if err != nil {
		return "", err
	}
	zap.L().Info("Funding source created",
		zap.String("customer_id", params.CustomerId),
		zap.String("funding_source_url", location))
	return location, nil
}

func (c *Client) CreateTransfer(ctx context.Context, params models.TransferParams) (string, error) {
	var req transferRequest
	req.Links.Source.Href = params.SourceFundingSourceUrl
	req.Links.Destination.Href = params.DestinationFundingSourceUrl
	req.Amount.Currency = transferAsset
	req.Amount.Value = params.Amount.StringFixed(2)

	location, err := c.do(ctx, "create transfer", c.baseURL+"/transfers", req, nil)
	if err != nil {
		return "", err
	}
	zap.L().Info("Transfer created",
		zap.String("transfer_url", location),
		zap.String("amount", req.Amount.Value))
	return location, nil
}

// do posts a HAL document and returns the Location header of the created resource.
func (c *Client) do(ctx context.Context, operation, endpoint string, body, target any) (string, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", halMediaType)
	req.Header.Set("Accept", halMediaType)

	zap.L().Debug("Payment network request", zap.String("endpoint", endpoint))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransport(operation, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.FromTransport(serviceName, operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.Unmarshal(respBody, &apiErr)
		msg := apiErr.message()
		if apiErr.Message == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		zap.L().Warn("Payment network returned non-success status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code))
		return "", apperrors.FromStatus(serviceName, operation, resp.StatusCode, apiErr.Code, errors.New(msg))
	}

	if target != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, target); err != nil {
			return "", fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}

	return resp.Header.Get("Location"), nil
}

// classifyTransport maps token endpoint rejections to status errors so bad
// credentials are reported as permanent.
func classifyTransport(operation string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return apperrors.FromStatus(serviceName, operation, retrieveErr.Response.StatusCode, retrieveErr.ErrorCode, err)
	}
	return apperrors.FromTransport(serviceName, operation, err)
}

