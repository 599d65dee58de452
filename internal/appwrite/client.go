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

// Package appwrite is the identity store adapter. It talks to the Appwrite
// REST API with a server API key.
package appwrite

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const serviceName = "identity"

// Compile-time check: *Client must satisfy external.IdentityStore.
var _ external.IdentityStore = (*Client)(nil)

type Client struct {
	endpoint   string
	projectId  string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg models.IdentityConfig, httpClient *http.Client) (*Client, error) {
	if cfg.Endpoint == "" || cfg.ProjectId == "" || cfg.ApiKey == "" {
		return nil, fmt.Errorf("identity config requires endpoint, project id and api key")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		projectId:  cfg.ProjectId,
		apiKey:     cfg.ApiKey,
		httpClient: httpClient,
	}, nil
}

type createUserRequest struct {
	UserId   string `json:"userId"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type createSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errorResponse is the Appwrite error envelope.
type errorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func (c *Client) CreateUser(ctx context.Context, email, password, name string) (*models.Identity, error) {
	var identity models.Identity
	req := createUserRequest{
		UserId:   uuid.New().String(),
		Email:    email,
		Password: password,
		Name:     name,
	}
	if err := c.do(ctx, "create user", http.MethodPost, "/v1/users", req, &identity); err != nil {
		return nil, err
	}

	zap.L().Info("Identity created", zap.String("user_id", identity.Id), zap.String("email", email))
	return &identity, nil
}

// CreateSession signs in with email and password. The server key is sent so
// the response carries the session secret.
func (c *Client) CreateSession(ctx context.Context, email, password string) (*models.Session, error) {
	var session models.Session
	req := createSessionRequest{Email: email, Password: password}
	if err := c.do(ctx, "create session", http.MethodPost, "/v1/account/sessions/email", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) GetUser(ctx context.Context, userId string) (*models.Identity, error) {
	var identity models.Identity
	if err := c.do(ctx, "get user", http.MethodGet, "/v1/users/"+url.PathEscape(userId), nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *Client) DeleteUser(ctx context.Context, userId string) error {
	if err := c.do(ctx, "delete user", http.MethodDelete, "/v1/users/"+url.PathEscape(userId), nil, nil); err != nil {
		return err
	}
	zap.L().Info("Identity deleted", zap.String("user_id", userId))
	return nil
}

// do is a helper function to make HTTP requests to the Appwrite API.
func (c *Client) do(ctx context.Context, operation, method, path string, body, target any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Appwrite-Project", c.projectId)
	req.Header.Set("X-Appwrite-Key", c.apiKey)

	zap.L().Debug("Identity store request", zap.String("method", method), zap.String("path", path))
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
		msg := apiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		zap.L().Warn("Identity store returned non-success status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("type", apiErr.Type))
		return apperrors.FromStatus(serviceName, operation, resp.StatusCode, apiErr.Type, errors.New(msg))
	}

	if target != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, target); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}

	return nil
}
