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

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/models"
)

// GetAccounts returns the multi-bank dashboard. Unreadable banks appear as placeholders.
func (s *DashboardService) GetAccounts(ctx context.Context, userId string) (*models.AccountsSummary, error) {
	if userId == "" {
		return nil, apperrors.NewValidation("user_id", "is required")
	}
	return s.ledger.GetAccounts(ctx, userId)
}

// GetAccount returns one bank's balances and unified transaction history.
func (s *DashboardService) GetAccount(ctx context.Context, bankId string) (*models.AccountDetail, error) {
	if bankId == "" {
		return nil, apperrors.NewValidation("bank_id", "is required")
	}
	return s.ledger.GetAccount(ctx, bankId)
}
