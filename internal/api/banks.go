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
	"errors"
	"fmt"

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/banklink"
	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/store"

	"go.uber.org/zap"
)

// CreateLinkToken returns the token a client needs to open the bank-linking
// flow for userId. The flow's public token is what LinkBank accepts.
func (s *DashboardService) CreateLinkToken(ctx context.Context, userId string) (string, error) {
	profile, err := s.GetProfile(ctx, userId)
	if err != nil {
		return "", err
	}
	return s.banklink.CreateLinkToken(ctx, profile)
}

// LinkBank links every account behind a temporary bank-link token to the
// user. A *banklink.LinkError is returned with the result when nothing was linked.
func (s *DashboardService) LinkBank(ctx context.Context, userId, publicToken string) (*banklink.Result, error) {
	if publicToken == "" {
		return nil, apperrors.NewValidation("public_token", "is required")
	}

	profile, err := s.GetProfile(ctx, userId)
	if err != nil {
		return nil, err
	}

	result, err := s.banklink.Link(ctx, profile, publicToken)
	if err != nil {
		zap.L().Error("Bank link failed", zap.String("user_id", userId), zap.Error(err))
		return result, err
	}
	return result, nil
}

func (s *DashboardService) GetBanks(ctx context.Context, userId string) ([]models.Bank, error) {
	banks, err := s.store.GetBanks(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve banks: %w", err)
	}
	return banks, nil
}

func (s *DashboardService) GetBank(ctx context.Context, bankId string) (*models.Bank, error) {
	bank, err := s.store.GetBank(ctx, bankId)
	if err != nil {
		return nil, notFoundOr(err, "bank", bankId)
	}
	return bank, nil
}

func (s *DashboardService) GetBankByAccountId(ctx context.Context, accountId string) (*models.Bank, error) {
	bank, err := s.store.GetBankByAccountId(ctx, accountId)
	if err != nil {
		return nil, notFoundOr(err, "bank", accountId)
	}
	return bank, nil
}

func notFoundOr(err error, kind, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewNotFound(kind, id)
	}
	return fmt.Errorf("failed to retrieve %s %s: %w", kind, id, err)
}
